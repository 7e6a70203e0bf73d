package ml

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Param is a trainable matrix together with its gradient.
type Param struct {
	Value *mat.Dense
	Grad  *mat.Dense
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
}

// DefaultAdamConfig returns the default Adam configuration.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LearningRate: 0.001,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
	}
}

// Adam keeps the first and second moment estimates for a fixed set of parameters.
type Adam struct {
	cfg    AdamConfig
	params []Param
	m, v   [][]float64
	step   int
}

// NewAdam creates a new optimizer for the given parameters.
func NewAdam(cfg AdamConfig, params []Param) *Adam {
	m := make([][]float64, len(params))
	v := make([][]float64, len(params))
	for i, p := range params {
		size := len(p.Value.RawMatrix().Data)
		m[i] = make([]float64, size)
		v[i] = make([]float64, size)
	}
	return &Adam{
		cfg:    cfg,
		params: params,
		m:      m,
		v:      v,
	}
}

// Step applies one bias-corrected update on all parameters from their current gradients.
func (a *Adam) Step() {
	a.step++
	bc1 := 1 - math.Pow(a.cfg.Beta1, float64(a.step))
	bc2 := 1 - math.Pow(a.cfg.Beta2, float64(a.step))
	for i, p := range a.params {
		w := p.Value.RawMatrix().Data
		g := p.Grad.RawMatrix().Data
		m, v := a.m[i], a.v[i]
		for j := range w {
			m[j] = a.cfg.Beta1*m[j] + (1-a.cfg.Beta1)*g[j]
			v[j] = a.cfg.Beta2*v[j] + (1-a.cfg.Beta2)*g[j]*g[j]
			mHat := m[j] / bc1
			vHat := v[j] / bc2
			w[j] -= a.cfg.LearningRate * mHat / (math.Sqrt(vHat) + a.cfg.Epsilon)
		}
	}
}

// Steps returns the number of updates applied so far.
func (a *Adam) Steps() int {
	return a.step
}
