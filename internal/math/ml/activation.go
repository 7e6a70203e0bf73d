package ml

import (
	"math"

	xml "github.com/drakos74/go-ex-machina/xmachina/ml"
)

// NOTE : the activations below evaluate the derivative on the pre-activation input,
// contrary to the go-ex-machina ones that expect the activation output.

// ReLU is the rectified linear activation.
var ReLU xml.Activation = relu{}

type relu struct{}

// F applies the activation function.
func (r relu) F(x float64) float64 {
	return math.Max(0, x)
}

// D returns the derivative at the pre-activation value x.
func (r relu) D(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Linear leaves the input untouched.
var Linear xml.Activation = linear{}

type linear struct{}

// F applies the activation function.
func (l linear) F(x float64) float64 {
	return x
}

// D returns the derivative of the activation function.
func (l linear) D(x float64) float64 {
	return 1
}
