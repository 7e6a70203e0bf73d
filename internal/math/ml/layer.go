package ml

import (
	"math"

	xml "github.com/drakos74/go-ex-machina/xmachina/ml"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dense is a fully connected layer operating on row batches.
type Dense struct {
	w   *mat.Dense // in x out
	b   *mat.Dense // 1 x out
	act xml.Activation

	// gradients of the last backward pass
	gw *mat.Dense
	gb *mat.Dense

	// cache of the last forward pass
	in *mat.Dense
	z  *mat.Dense
}

// NewDense creates a new layer with he-initialised weights and zero bias.
func NewDense(in, out int, act xml.Activation, rnd *rand.Rand) *Dense {
	return &Dense{
		w:   heMat(in, out, rnd),
		b:   mat.NewDense(1, out, nil),
		act: act,
		gw:  mat.NewDense(in, out, nil),
		gb:  mat.NewDense(1, out, nil),
	}
}

// Size returns the input and output size of the layer.
func (l *Dense) Size() (int, int) {
	return l.w.Dims()
}

// Forward computes the layer output and keeps the input for the backward pass.
func (l *Dense) Forward(x *mat.Dense) *mat.Dense {
	z := l.linear(x)
	l.in = x
	l.z = z
	return l.activate(z)
}

// Apply computes the layer output without touching the training cache.
func (l *Dense) Apply(x *mat.Dense) *mat.Dense {
	return l.activate(l.linear(x))
}

// Backward takes the loss gradient on the layer output,
// stores the parameter gradients and returns the gradient on the layer input.
func (l *Dense) Backward(da *mat.Dense) *mat.Dense {
	n, out := da.Dims()
	dz := mat.NewDense(n, out, nil)
	dz.Apply(func(i, j int, v float64) float64 {
		return v * l.act.D(l.z.At(i, j))
	}, da)

	l.gw.Mul(l.in.T(), dz)

	l.gb.Zero()
	gb := l.gb.RawRowView(0)
	for i := 0; i < n; i++ {
		floats.Add(gb, dz.RawRowView(i))
	}

	in, _ := l.w.Dims()
	dx := mat.NewDense(n, in, nil)
	dx.Mul(dz, l.w.T())
	return dx
}

// Params returns the trainable parameters with their gradients.
func (l *Dense) Params() []Param {
	return []Param{
		{Value: l.w, Grad: l.gw},
		{Value: l.b, Grad: l.gb},
	}
}

func (l *Dense) linear(x *mat.Dense) *mat.Dense {
	n, _ := x.Dims()
	_, out := l.w.Dims()
	z := mat.NewDense(n, out, nil)
	z.Mul(x, l.w)
	bias := l.b.RawRowView(0)
	for i := 0; i < n; i++ {
		floats.Add(z.RawRowView(i), bias)
	}
	return z
}

func (l *Dense) activate(z *mat.Dense) *mat.Dense {
	n, out := z.Dims()
	a := mat.NewDense(n, out, nil)
	a.Apply(func(i, j int, v float64) float64 {
		return l.act.F(v)
	}, z)
	return a
}

// heMat creates an n x m matrix with he-normal initialisation.
func heMat(n, m int, rnd *rand.Rand) *mat.Dense {
	scale := math.Sqrt(2.0 / float64(n))
	data := make([]float64, n*m)
	for i := range data {
		data[i] = rnd.NormFloat64() * scale
	}
	return mat.NewDense(n, m, data)
}
