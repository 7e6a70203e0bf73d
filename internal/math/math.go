package math

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile of the values, with p in [0, 100].
// The rank p/100*(n-1) is linearly interpolated between its neighbouring order statistics.
// It returns NaN for an empty input.
func Percentile(values []float64, p float64) float64 {
	return Percentiles(values, p)[0]
}

// Percentiles returns the percentiles of the values for each of the given p.
func Percentiles(values []float64, pp ...float64) []float64 {
	result := make([]float64, len(pp))
	if len(values) == 0 {
		for i := range result {
			result[i] = math.NaN()
		}
		return result
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	for i, p := range pp {
		q := math.Max(0, math.Min(1, p/100))
		h := q * float64(len(sorted)-1)
		lo, hi := int(math.Floor(h)), int(math.Ceil(h))
		if lo == hi {
			result[i] = sorted[lo]
			continue
		}
		result[i] = sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
	}
	return result
}

// Band returns the symmetric percentile band of the given width around the median.
// e.g. a width of 50 gives [25, 75]
func Band(width float64) (float64, float64) {
	return 50 - width/2, 50 + width/2
}
