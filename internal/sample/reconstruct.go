package sample

import (
	"fmt"

	"github.com/drakos74/ddhs/internal/buffer"
	"github.com/drakos74/ddhs/internal/model"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Reconstruct draws a new row for each of the given rows.
// Every feature is drawn independently from a normal distribution
// with the mean and population standard deviation of that feature,
// which keeps the marginals but not the correlation across features.
func Reconstruct(rows [][]float64, src rand.Source) ([][]float64, error) {
	if len(rows) == 0 {
		return [][]float64{}, nil
	}
	d := len(rows[0])
	stats, err := buffer.Collect(d, rows)
	if err != nil {
		return nil, fmt.Errorf("could not collect feature stats: %v: %w", err, model.ErrShapeMismatch)
	}

	features := make([]distuv.Normal, d)
	for j, s := range stats.Stats() {
		features[j] = distuv.Normal{
			Mu:    s.Avg(),
			Sigma: s.StDev(),
			Src:   src,
		}
	}

	reconstructed := make([][]float64, len(rows))
	for i := range rows {
		row := make([]float64, d)
		for j := range features {
			row[j] = features[j].Rand()
		}
		reconstructed[i] = row
	}
	return reconstructed, nil
}
