package density

import (
	"fmt"

	coinmath "github.com/drakos74/ddhs/internal/math"
	"github.com/drakos74/ddhs/internal/metrics"
	"github.com/drakos74/ddhs/internal/model"
	"github.com/rs/zerolog/log"
)

// Method is the way the density band is computed.
type Method string

const (
	// KDEMethod scores every row with a gaussian kernel density estimate.
	KDEMethod Method = "kde"
	// PercentileMethod thresholds every feature on its own percentiles.
	PercentileMethod Method = "percentile"
)

const (
	DefaultBandwidth = 0.5
	DefaultLimit     = 10000
)

// Config defines the extractor parameters.
type Config struct {
	Bandwidth float64 `json:"bandwidth"`
	Limit     int     `json:"limit"`
}

// DefaultConfig returns the default extractor config.
func DefaultConfig() Config {
	return Config{
		Bandwidth: DefaultBandwidth,
		Limit:     DefaultLimit,
	}
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.Bandwidth <= 0 {
		return fmt.Errorf("bandwidth must be positive but was %v: %w", c.Bandwidth, model.ErrInvalidConfig)
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative but was %d: %w", c.Limit, model.ErrInvalidConfig)
	}
	return nil
}

// Selection is the outcome of an extraction.
type Selection struct {
	// Rows are the selected rows, as they were given.
	Rows [][]float64
	// Mask marks the selected input rows.
	Mask []bool
	// Density holds the log density of each input row, for the kde method only.
	Density []float64
	// Low and High are the band thresholds,
	// a single pair for the kde method and one pair per feature for the percentile method.
	Low  []float64
	High []float64
	// Method is the method used.
	Method Method
}

// Empty returns true if no row was selected.
func (s Selection) Empty() bool {
	return len(s.Rows) == 0
}

// Extractor selects the rows whose density falls within a percentile band.
type Extractor struct {
	cfg Config
}

// New creates a new extractor.
func New(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{cfg: cfg}, nil
}

// Extract returns the rows with a density between the start and end percentiles, both inclusive.
// Densities are estimated on the standardised rows.
// An empty selection is not an error, callers should check Selection.Empty.
func (e *Extractor) Extract(rows [][]float64, start, end float64) (Selection, error) {
	if !(0 <= start && start <= end && end <= 100) {
		return Selection{}, fmt.Errorf("[%v,%v]: %w", start, end, model.ErrInvalidBand)
	}
	if len(rows) == 0 {
		return Selection{Mask: []bool{}}, nil
	}

	var scaler Scaler
	scaled, err := scaler.FitTransform(rows)
	if err != nil {
		return Selection{}, fmt.Errorf("could not standardise rows: %w", err)
	}

	var selection Selection
	if len(rows) > e.cfg.Limit {
		selection = percentileMask(scaled, start, end)
	} else {
		selection = kdeMask(scaled, e.cfg.Bandwidth, start, end)
	}

	for i, keep := range selection.Mask {
		if keep {
			selection.Rows = append(selection.Rows, model.Copy(rows[i]))
		}
	}

	outcome := "selected"
	if selection.Empty() {
		outcome = "empty"
		log.Warn().
			Str("method", string(selection.Method)).
			Float64("start", start).
			Float64("end", end).
			Int("rows", len(rows)).
			Msg("no rows within density band")
	} else {
		log.Debug().
			Str("method", string(selection.Method)).
			Float64("start", start).
			Float64("end", end).
			Int("rows", len(rows)).
			Int("selected", len(selection.Rows)).
			Msg("extracted density band")
	}
	metrics.Observer.Extraction(string(selection.Method), outcome)
	return selection, nil
}

func kdeMask(scaled [][]float64, bandwidth, start, end float64) Selection {
	density := NewKDE(bandwidth, scaled).Score()
	thresholds := coinmath.Percentiles(density, start, end)
	low, high := thresholds[0], thresholds[1]
	mask := make([]bool, len(scaled))
	for i, d := range density {
		mask[i] = low <= d && d <= high
	}
	return Selection{
		Mask:    mask,
		Density: density,
		Low:     []float64{low},
		High:    []float64{high},
		Method:  KDEMethod,
	}
}

func percentileMask(scaled [][]float64, start, end float64) Selection {
	d := len(scaled[0])
	low := make([]float64, d)
	high := make([]float64, d)
	column := make([]float64, len(scaled))
	for j := 0; j < d; j++ {
		for i, row := range scaled {
			column[i] = row[j]
		}
		thresholds := coinmath.Percentiles(column, start, end)
		low[j], high[j] = thresholds[0], thresholds[1]
	}
	mask := make([]bool, len(scaled))
	for i, row := range scaled {
		var in int
		for j, v := range row {
			if low[j] <= v && v <= high[j] {
				in++
			}
		}
		// strictly more than half of the features
		mask[i] = 2*in > d
	}
	return Selection{
		Mask:   mask,
		Low:    low,
		High:   high,
		Method: PercentileMethod,
	}
}
