package synth

import (
	"fmt"

	"github.com/drakos74/ddhs/internal/density"
	"github.com/drakos74/ddhs/internal/model"
	"github.com/drakos74/ddhs/internal/sample"
)

// Space is the space the synthesised rows are expressed in.
type Space string

const (
	// LatentSpace returns the latent vectors under the input column names.
	LatentSpace Space = "latent"
	// FeatureSpace decodes the latent vectors back to the input features.
	FeatureSpace Space = "feature"
)

const (
	DefaultLargePercent = 50.0
	DefaultSmallPercent = 75.0
	DefaultLearningRate = 1e-3
	DefaultEpochs       = 50
	DefaultRatio        = 1.0
	DefaultSeed         = 42
	DefaultPurity       = 30
)

// Config defines the parameters of a synthesis run.
type Config struct {
	// LargePercent is the width of the density band kept for the majority class.
	LargePercent float64 `json:"large_percent"`
	// SmallPercent is the width of the density band kept for the minority class.
	SmallPercent float64 `json:"small_percent"`
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epoch_count"`
	// Ratio is the target number of synthetic samples relative to the minority size.
	Ratio        float64        `json:"ratio"`
	Hidden       []int          `json:"hidden"`
	CrossEntropy bool           `json:"cross_entropy"`
	Density      density.Config `json:"density"`
	// ResampleWindow is the minority density band fed to the feature resampler.
	ResampleWindow [2]float64    `json:"resample_window"`
	Sampler        sample.Config `json:"sampler"`
	Space          Space         `json:"space"`
	Seed           uint64        `json:"seed"`
	// PurityIterations are the k-means iterations of the latent purity diagnostic, 0 disables it.
	PurityIterations int `json:"purity_iterations"`
}

// DefaultConfig returns the default synthesis config.
func DefaultConfig() Config {
	return Config{
		LargePercent:     DefaultLargePercent,
		SmallPercent:     DefaultSmallPercent,
		LearningRate:     DefaultLearningRate,
		Epochs:           DefaultEpochs,
		Ratio:            DefaultRatio,
		Hidden:           []int{256, 128},
		CrossEntropy:     true,
		Density:          density.DefaultConfig(),
		ResampleWindow:   [2]float64{37.5, 62.5},
		Sampler:          sample.DefaultConfig(),
		Space:            LatentSpace,
		Seed:             DefaultSeed,
		PurityIterations: DefaultPurity,
	}
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.LargePercent < 0 || c.LargePercent > 100 {
		return fmt.Errorf("large percent %v out of [0,100]: %w", c.LargePercent, model.ErrInvalidConfig)
	}
	if c.SmallPercent < 0 || c.SmallPercent > 100 {
		return fmt.Errorf("small percent %v out of [0,100]: %w", c.SmallPercent, model.ErrInvalidConfig)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive but was %v: %w", c.LearningRate, model.ErrInvalidConfig)
	}
	if c.Epochs < 0 {
		return fmt.Errorf("epoch count must not be negative but was %d: %w", c.Epochs, model.ErrInvalidConfig)
	}
	if c.Ratio < 0 {
		return fmt.Errorf("ratio must not be negative but was %v: %w", c.Ratio, model.ErrInvalidConfig)
	}
	for _, h := range c.Hidden {
		if h <= 0 {
			return fmt.Errorf("hidden size must be positive but was %d: %w", h, model.ErrInvalidConfig)
		}
	}
	start, end := c.ResampleWindow[0], c.ResampleWindow[1]
	if !(0 <= start && start <= end && end <= 100) {
		return fmt.Errorf("resample window %v: %w", c.ResampleWindow, model.ErrInvalidBand)
	}
	if err := c.Density.Validate(); err != nil {
		return err
	}
	if err := c.Sampler.Validate(); err != nil {
		return err
	}
	switch c.Space {
	case LatentSpace, FeatureSpace:
	default:
		return fmt.Errorf("unknown space '%s': %w", c.Space, model.ErrInvalidConfig)
	}
	if c.PurityIterations < 0 {
		return fmt.Errorf("purity iterations must not be negative but was %d: %w", c.PurityIterations, model.ErrInvalidConfig)
	}
	return nil
}
