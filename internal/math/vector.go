package math

import (
	"github.com/drakos74/go-ex-machina/xmath"
	"gonum.org/v1/gonum/floats"
)

// Centroid returns the mean point of the given rows.
func Centroid(rows [][]float64) xmath.Vector {
	if len(rows) == 0 {
		return xmath.Vec(0)
	}
	c := xmath.Vec(len(rows[0]))
	for _, row := range rows {
		floats.Add(c, row)
	}
	floats.Scale(1/float64(len(rows)), c)
	return c
}

// Distance returns the euclidean distance of the two points.
func Distance(a, b []float64) float64 {
	return xmath.Vector(a).Diff(b).Norm()
}

// Radius returns the largest distance of any of the rows to the given center.
func Radius(center []float64, rows [][]float64) float64 {
	var r float64
	for _, row := range rows {
		if d := Distance(row, center); d > r {
			r = d
		}
	}
	return r
}
