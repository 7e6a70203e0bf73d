package density

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// KDE is a gaussian kernel density estimate over a fixed set of points.
type KDE struct {
	bandwidth float64
	points    [][]float64
}

// NewKDE creates a new estimator for the given points.
func NewKDE(bandwidth float64, points [][]float64) *KDE {
	return &KDE{
		bandwidth: bandwidth,
		points:    points,
	}
}

// LogDensity returns the log of the normalised kernel density at x.
func (k *KDE) LogDensity(x []float64) float64 {
	n := len(k.points)
	if n == 0 {
		return math.Inf(-1)
	}
	h2 := k.bandwidth * k.bandwidth
	terms := make([]float64, n)
	for i, p := range k.points {
		var d2 float64
		for j, v := range p {
			diff := x[j] - v
			d2 += diff * diff
		}
		terms[i] = -d2 / (2 * h2)
	}
	d := float64(len(x))
	return floats.LogSumExp(terms) - math.Log(float64(n)) - d/2*math.Log(2*math.Pi*h2)
}

// Score returns the log density of each point against the estimator itself.
func (k *KDE) Score() []float64 {
	scores := make([]float64, len(k.points))
	for i, p := range k.points {
		scores[i] = k.LogDensity(p)
	}
	return scores
}
