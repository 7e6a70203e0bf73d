package ml

import (
	"errors"
	"fmt"
	"math"

	xml "github.com/drakos74/go-ex-machina/xmachina/ml"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Classes is the number of class centers held by the autoencoder.
const Classes = 2

var (
	// ErrDiverged indicates a non-finite training loss.
	ErrDiverged = errors.New("training diverged")
	// ErrConfig indicates an invalid network configuration.
	ErrConfig = errors.New("invalid network config")
)

// Config defines the shape and training parameters of the autoencoder.
// Input is the feature size
// Latent is the embedding size
// Hidden are the sizes of the hidden encoder layers, the decoder mirrors them
// CrossEntropy adds the cross entropy of the reconstruction against the class index to the loss
type Config struct {
	Input        int
	Latent       int
	Hidden       []int
	LearningRate float64
	CrossEntropy bool
}

// Autoencoder maps feature rows to a latent space and back,
// keeping one learnable center per class in the latent space.
type Autoencoder struct {
	cfg     Config
	encoder []*Dense
	decoder []*Dense
	centers *mat.Dense
	gradC   *mat.Dense
	adam    *Adam
}

// NewAutoencoder creates a new autoencoder with freshly initialised weights.
func NewAutoencoder(cfg Config, rnd *rand.Rand) (*Autoencoder, error) {
	if cfg.Input <= 0 || cfg.Latent <= 0 {
		return nil, fmt.Errorf("input %d and latent %d size must be positive: %w", cfg.Input, cfg.Latent, ErrConfig)
	}
	for _, h := range cfg.Hidden {
		if h <= 0 {
			return nil, fmt.Errorf("hidden size %d must be positive: %w", h, ErrConfig)
		}
	}
	if cfg.CrossEntropy && cfg.Input < Classes {
		return nil, fmt.Errorf("cross entropy on the reconstruction needs at least %d features, got %d: %w", Classes, cfg.Input, ErrConfig)
	}

	sizes := append([]int{cfg.Input}, cfg.Hidden...)
	sizes = append(sizes, cfg.Latent)

	encoder := make([]*Dense, 0, len(sizes)-1)
	for i := 0; i < len(sizes)-1; i++ {
		encoder = append(encoder, NewDense(sizes[i], sizes[i+1], activation(i, len(sizes)-1), rnd))
	}
	decoder := make([]*Dense, 0, len(sizes)-1)
	for i := len(sizes) - 1; i > 0; i-- {
		decoder = append(decoder, NewDense(sizes[i], sizes[i-1], activation(len(sizes)-1-i, len(sizes)-1), rnd))
	}

	centers := make([]float64, Classes*cfg.Latent)
	for i := range centers {
		centers[i] = rnd.NormFloat64()
	}

	ae := &Autoencoder{
		cfg:     cfg,
		encoder: encoder,
		decoder: decoder,
		centers: mat.NewDense(Classes, cfg.Latent, centers),
		gradC:   mat.NewDense(Classes, cfg.Latent, nil),
	}

	adamCfg := DefaultAdamConfig()
	if cfg.LearningRate > 0 {
		adamCfg.LearningRate = cfg.LearningRate
	}
	ae.adam = NewAdam(adamCfg, ae.Params())
	return ae, nil
}

// activation applies the non-linearity between all but the last layer.
func activation(i, layers int) xml.Activation {
	if i == layers-1 {
		return Linear
	}
	return ReLU
}

// Params returns all trainable parameters, including the class centers.
func (ae *Autoencoder) Params() []Param {
	params := make([]Param, 0)
	for _, l := range ae.encoder {
		params = append(params, l.Params()...)
	}
	for _, l := range ae.decoder {
		params = append(params, l.Params()...)
	}
	return append(params, Param{Value: ae.centers, Grad: ae.gradC})
}

// Forward returns the embedding and the reconstruction of the given batch.
func (ae *Autoencoder) Forward(x *mat.Dense) (*mat.Dense, *mat.Dense) {
	e := ae.Encode(x)
	return e, ae.Decode(e)
}

// Encode maps the batch to the latent space.
func (ae *Autoencoder) Encode(x *mat.Dense) *mat.Dense {
	out := x
	for _, l := range ae.encoder {
		out = l.Apply(out)
	}
	return out
}

// Decode maps the latent batch back to the feature space.
func (ae *Autoencoder) Decode(z *mat.Dense) *mat.Dense {
	out := z
	for _, l := range ae.decoder {
		out = l.Apply(out)
	}
	return out
}

// Centers returns a copy of the class centers.
func (ae *Autoencoder) Centers() *mat.Dense {
	return mat.DenseCopyOf(ae.centers)
}

// Train runs one full-batch optimisation step per epoch.
// classes holds the class index for every row of x.
func (ae *Autoencoder) Train(x *mat.Dense, classes []int, epochs int) ([]Loss, error) {
	n, d := x.Dims()
	if d != ae.cfg.Input {
		return nil, fmt.Errorf("batch has %d features for input size %d: %w", d, ae.cfg.Input, ErrConfig)
	}
	if len(classes) != n {
		return nil, fmt.Errorf("%d classes for %d rows: %w", len(classes), n, ErrConfig)
	}
	for i, c := range classes {
		if c < 0 || c >= Classes {
			return nil, fmt.Errorf("class index %d at row %d: %w", c, i, ErrConfig)
		}
	}

	losses := make([]Loss, 0, epochs)
	for epoch := 0; epoch < epochs; epoch++ {
		loss, err := ae.step(x, classes)
		if err != nil {
			return losses, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		loss.Epoch = epoch
		losses = append(losses, loss)
		log.Debug().
			Int("epoch", epoch).
			Float64("reconstruction", loss.Reconstruction).
			Float64("center", loss.Center).
			Float64("cross-entropy", loss.CrossEntropy).
			Float64("total", loss.Total).
			Msg("autoencoder epoch")
		if math.IsNaN(loss.Total) || math.IsInf(loss.Total, 0) {
			return losses, fmt.Errorf("epoch %d loss %v: %w", epoch, loss.Total, ErrDiverged)
		}
	}
	return losses, nil
}

func (ae *Autoencoder) step(x *mat.Dense, classes []int) (Loss, error) {
	e := x
	for _, l := range ae.encoder {
		e = l.Forward(e)
	}
	r := e
	for _, l := range ae.decoder {
		r = l.Forward(r)
	}

	var loss Loss
	rec, dr := MSE(r, x)
	loss.Reconstruction = rec

	if ae.cfg.CrossEntropy {
		ce, dce, err := CrossEntropy(r, classes)
		if err != nil {
			return loss, err
		}
		loss.CrossEntropy = ce
		dr.Add(dr, dce)
	}

	de := dr
	for i := len(ae.decoder) - 1; i >= 0; i-- {
		de = ae.decoder[i].Backward(de)
	}

	center, dce, dc := CenterLoss(e, ae.centers, classes)
	loss.Center = center
	de.Add(de, dce)
	ae.gradC.Copy(dc)

	for i := len(ae.encoder) - 1; i >= 0; i-- {
		de = ae.encoder[i].Backward(de)
	}

	loss.Total = loss.Reconstruction + loss.Center + loss.CrossEntropy
	ae.adam.Step()
	return loss, nil
}
