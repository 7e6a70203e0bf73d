package ml

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func twoClusters(rnd *rand.Rand, n int) ([][]float64, []int) {
	rows := make([][]float64, 0, 2*n)
	classes := make([]int, 0, 2*n)
	for i := 0; i < n; i++ {
		rows = append(rows, []float64{rnd.NormFloat64() * 0.3, rnd.NormFloat64() * 0.3, rnd.NormFloat64() * 0.3})
		classes = append(classes, 0)
		rows = append(rows, []float64{2 + rnd.NormFloat64()*0.3, 2 + rnd.NormFloat64()*0.3, 2 + rnd.NormFloat64()*0.3})
		classes = append(classes, 1)
	}
	return rows, classes
}

func TestAutoencoder_Shapes(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	ae, err := NewAutoencoder(Config{
		Input:        3,
		Latent:       3,
		Hidden:       []int{8, 4},
		LearningRate: 0.01,
		CrossEntropy: true,
	}, rnd)
	require.NoError(t, err)

	rows, _ := twoClusters(rnd, 10)
	e, r := ae.Forward(FromRows(rows))
	n, d := e.Dims()
	assert.Equal(t, 20, n)
	assert.Equal(t, 3, d)
	n, d = r.Dims()
	assert.Equal(t, 20, n)
	assert.Equal(t, 3, d)

	c := ae.Centers()
	n, d = c.Dims()
	assert.Equal(t, Classes, n)
	assert.Equal(t, 3, d)
}

func TestAutoencoder_Train(t *testing.T) {

	type test struct {
		crossEntropy bool
	}

	tests := map[string]test{
		"with-cross-entropy": {
			crossEntropy: true,
		},
		"without-cross-entropy": {
			crossEntropy: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rnd := rand.New(rand.NewSource(42))
			ae, err := NewAutoencoder(Config{
				Input:        3,
				Latent:       3,
				Hidden:       []int{16, 8},
				LearningRate: 0.01,
				CrossEntropy: tt.crossEntropy,
			}, rnd)
			require.NoError(t, err)

			rows, classes := twoClusters(rnd, 50)
			losses, err := ae.Train(FromRows(rows), classes, 200)
			require.NoError(t, err)
			require.Len(t, losses, 200)

			first := losses[0]
			last := losses[len(losses)-1]
			assert.Less(t, last.Total, first.Total)
			assert.Less(t, last.Center, first.Center)
			assert.Equal(t, 199, last.Epoch)
			if !tt.crossEntropy {
				assert.Equal(t, 0.0, last.CrossEntropy)
			}
			assert.InDelta(t, last.Reconstruction+last.Center+last.CrossEntropy, last.Total, 1e-9)
		})
	}
}

func TestAutoencoder_Errors(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	_, err := NewAutoencoder(Config{Input: 1, Latent: 1, CrossEntropy: true}, rnd)
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = NewAutoencoder(Config{Input: 0, Latent: 1}, rnd)
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = NewAutoencoder(Config{Input: 2, Latent: 2, Hidden: []int{0}}, rnd)
	assert.True(t, errors.Is(err, ErrConfig))

	ae, err := NewAutoencoder(Config{Input: 2, Latent: 2, Hidden: []int{4}}, rnd)
	require.NoError(t, err)

	x := FromRows([][]float64{{1, 2}, {3, 4}})
	_, err = ae.Train(x, []int{0, 2}, 1)
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = ae.Train(x, []int{0}, 1)
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = ae.Train(FromRows([][]float64{{1, 2, 3}}), []int{0}, 1)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestMSE(t *testing.T) {
	out := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	target := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	loss, grad := MSE(out, target)
	// (0 + 1 + 4 + 9) / 4
	assert.InDelta(t, 3.5, loss, 1e-12)
	assert.InDelta(t, 0.0, grad.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5, grad.At(0, 1), 1e-12)
	assert.InDelta(t, 1.5, grad.At(1, 1), 1e-12)
}

func TestCenterLoss(t *testing.T) {
	embedding := mat.NewDense(2, 2, []float64{1, 0, 0, 3})
	centers := mat.NewDense(2, 2, []float64{0, 0, 0, 1})
	loss, ge, gc := CenterLoss(embedding, centers, []int{0, 1})
	// (1 + 4) / 2
	assert.InDelta(t, 2.5, loss, 1e-12)
	assert.InDelta(t, 1.0, ge.At(0, 0), 1e-12)
	assert.InDelta(t, 2.0, ge.At(1, 1), 1e-12)
	assert.InDelta(t, -1.0, gc.At(0, 0), 1e-12)
	assert.InDelta(t, -2.0, gc.At(1, 1), 1e-12)
}

func TestCrossEntropy(t *testing.T) {
	logits := mat.NewDense(2, 4, nil)
	loss, grad, err := CrossEntropy(logits, []int{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(4), loss, 1e-12)
	assert.InDelta(t, (0.25-1)/2, grad.At(0, 0), 1e-12)
	assert.InDelta(t, 0.25/2, grad.At(0, 1), 1e-12)

	_, _, err = CrossEntropy(logits, []int{0, 4})
	assert.Error(t, err)
}

func TestAdam(t *testing.T) {
	w := mat.NewDense(1, 1, []float64{0})
	g := mat.NewDense(1, 1, nil)
	cfg := DefaultAdamConfig()
	cfg.LearningRate = 0.1
	adam := NewAdam(cfg, []Param{{Value: w, Grad: g}})
	for i := 0; i < 500; i++ {
		// gradient of (w-3)^2
		g.Set(0, 0, 2*(w.At(0, 0)-3))
		adam.Step()
	}
	assert.Equal(t, 500, adam.Steps())
	assert.InDelta(t, 3.0, w.At(0, 0), 0.05)
}

func TestRows(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	m := FromRows(rows)
	assert.Equal(t, rows, ToRows(m))
	assert.Nil(t, FromRows(nil))
	assert.Len(t, ToRows(nil), 0)
}
