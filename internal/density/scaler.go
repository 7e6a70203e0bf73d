package density

import (
	"fmt"

	"github.com/drakos74/ddhs/internal/buffer"
	"github.com/drakos74/ddhs/internal/model"
)

// Scaler standardises each column to zero mean and unit variance.
// Columns with zero variance are only centered.
type Scaler struct {
	mean  []float64
	scale []float64
}

// Fit computes the column means and population standard deviations.
func (s *Scaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return fmt.Errorf("could not fit scaler: %w", model.ErrEmptyInput)
	}
	stats, err := buffer.Collect(len(rows[0]), rows)
	if err != nil {
		return fmt.Errorf("could not fit scaler: %v: %w", err, model.ErrShapeMismatch)
	}
	s.mean = stats.Avg()
	s.scale = stats.StDev()
	for j, std := range s.scale {
		if std == 0 {
			s.scale[j] = 1
		}
	}
	return nil
}

// Transform returns the standardised copy of the rows.
func (s *Scaler) Transform(rows [][]float64) ([][]float64, error) {
	if s.mean == nil {
		return nil, fmt.Errorf("scaler is not fitted")
	}
	scaled := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(s.mean) {
			return nil, fmt.Errorf("row %d has %d values for %d columns: %w", i, len(row), len(s.mean), model.ErrShapeMismatch)
		}
		z := make([]float64, len(row))
		for j, v := range row {
			z[j] = (v - s.mean[j]) / s.scale[j]
		}
		scaled[i] = z
	}
	return scaled, nil
}

// FitTransform fits the scaler and transforms the same rows.
func (s *Scaler) FitTransform(rows [][]float64) ([][]float64, error) {
	if err := s.Fit(rows); err != nil {
		return nil, err
	}
	return s.Transform(rows)
}
