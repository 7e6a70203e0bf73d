package synth

import (
	"time"

	"github.com/drakos74/ddhs/internal/math/ml"
	"github.com/drakos74/ddhs/internal/model"
)

const (
	MajorityWindow = "majority"
	MinorityWindow = "minority"
	ResampleWindow = "resample"
)

// Window summarises a density extraction.
type Window struct {
	Name     string  `json:"name"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Method   string  `json:"method"`
	Input    int     `json:"input"`
	Selected int     `json:"selected"`
}

// Report describes a synthesis run.
type Report struct {
	Run       string          `json:"run"`
	Time      time.Time       `json:"time"`
	Config    Config          `json:"config"`
	Classes   model.Classes   `json:"classes"`
	Losses    []ml.Loss       `json:"losses"`
	Windows   []Window        `json:"windows"`
	Centroids [2][]float64    `json:"centroids"`
	Radius    float64         `json:"radius"`
	Resampled int             `json:"resampled"`
	Accepted  int             `json:"accepted"`
	Draws     int             `json:"draws"`
	Exhausted bool            `json:"exhausted"`
	Purity    float64         `json:"purity,omitempty"`
	Output    map[string]int  `json:"output"`
	Warnings  []model.Warning `json:"warnings,omitempty"`
}

// Synthetic returns the number of generated minority samples.
func (r Report) Synthetic() int {
	return r.Resampled + r.Accepted
}

// Window returns the summary of the named window.
func (r Report) Window(name string) (Window, bool) {
	for _, w := range r.Windows {
		if w.Name == name {
			return w, true
		}
	}
	return Window{}, false
}

// Result is the rebalanced dataset with the report of the run that produced it.
type Result struct {
	Dataset model.Dataset `json:"dataset"`
	Report  Report        `json:"report"`
}
