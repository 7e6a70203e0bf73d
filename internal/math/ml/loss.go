package ml

import (
	"fmt"

	xml "github.com/drakos74/go-ex-machina/xmachina/ml"
	"github.com/drakos74/go-ex-machina/xmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Loss is the training loss of one epoch, split into its terms.
type Loss struct {
	Epoch          int     `json:"epoch"`
	Reconstruction float64 `json:"reconstruction"`
	Center         float64 `json:"center"`
	CrossEntropy   float64 `json:"cross_entropy"`
	Total          float64 `json:"total"`
}

// MSE returns the mean squared error over all elements and its gradient on the output.
func MSE(output, target *mat.Dense) (float64, *mat.Dense) {
	n, d := output.Dims()
	size := float64(n * d)
	grad := mat.NewDense(n, d, nil)
	grad.Sub(output, target)
	var loss float64
	for i := 0; i < n; i++ {
		row := grad.RawRowView(i)
		loss += floats.Dot(row, row)
	}
	grad.Scale(2/size, grad)
	return loss / size, grad
}

// CenterLoss pulls each embedding towards the center of its class.
// It returns the loss, the gradient on the embeddings and the gradient on the centers.
func CenterLoss(embedding, centers *mat.Dense, classes []int) (float64, *mat.Dense, *mat.Dense) {
	n, d := embedding.Dims()
	k, _ := centers.Dims()
	size := float64(n)
	gradE := mat.NewDense(n, d, nil)
	gradC := mat.NewDense(k, d, nil)
	var loss float64
	for i := 0; i < n; i++ {
		c := classes[i]
		diff := xmath.Vector(embedding.RawRowView(i)).Diff(centers.RawRowView(c))
		loss += diff.Dot(diff)
		ge := gradE.RawRowView(i)
		floats.AddScaled(ge, 2/size, diff)
		floats.AddScaled(gradC.RawRowView(c), -2/size, diff)
	}
	return loss / size, gradE, gradC
}

// CrossEntropy treats every output row as logits against the class index of the row,
// and returns the mean negative log likelihood together with its gradient on the logits.
func CrossEntropy(logits *mat.Dense, classes []int) (float64, *mat.Dense, error) {
	n, d := logits.Dims()
	size := float64(n)
	grad := mat.NewDense(n, d, nil)
	var loss float64
	softmax := xml.SoftMax{}
	for i := 0; i < n; i++ {
		c := classes[i]
		if c < 0 || c >= d {
			return 0, nil, fmt.Errorf("class index %d out of range for %d logits", c, d)
		}
		row := logits.RawRowView(i)
		loss += floats.LogSumExp(row) - row[c]
		// shift by the max, so that the softmax never works on positive exponents
		shifted := xmath.Vector(row).Copy()
		floats.AddConst(-floats.Max(row), shifted)
		p := softmax.F(shifted)
		p[c] -= 1
		floats.AddScaled(grad.RawRowView(i), 1/size, p)
	}
	return loss / size, grad, nil
}
