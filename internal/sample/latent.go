package sample

import (
	"fmt"
	"math"

	coinmath "github.com/drakos74/ddhs/internal/math"
	"github.com/drakos74/ddhs/internal/metrics"
	"github.com/drakos74/ddhs/internal/model"
	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// Proposal is the distribution candidate latent points are drawn from.
type Proposal string

const (
	// BallProposal draws uniformly from the minority ball.
	BallProposal Proposal = "ball"
	// GaussianProposal draws from the standard normal distribution.
	GaussianProposal Proposal = "gaussian"
)

const DefaultMaxDraws = 100000

// Config defines the latent sampler parameters.
type Config struct {
	MaxDraws int      `json:"max_draws"`
	Proposal Proposal `json:"proposal"`
}

// DefaultConfig returns the default sampler config.
func DefaultConfig() Config {
	return Config{
		MaxDraws: DefaultMaxDraws,
		Proposal: BallProposal,
	}
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.MaxDraws <= 0 {
		return fmt.Errorf("max draws must be positive but was %d: %w", c.MaxDraws, model.ErrInvalidConfig)
	}
	switch c.Proposal {
	case BallProposal, GaussianProposal:
	default:
		return fmt.Errorf("unknown proposal '%s': %w", c.Proposal, model.ErrInvalidConfig)
	}
	return nil
}

// Draw is the outcome of a sampling run.
type Draw struct {
	Accepted  [][]float64
	Draws     int
	Exhausted bool
}

// Latent draws latent points that belong to the minority region,
// i.e. closer to the minority centroid than to the majority one and within the minority radius.
type Latent struct {
	cfg      Config
	minority xmath.Vector
	majority xmath.Vector
	radius   float64
	rnd      *rand.Rand
}

// NewLatent creates a new latent sampler around the minority centroid.
func NewLatent(cfg Config, minority, majority xmath.Vector, radius float64, rnd *rand.Rand) (*Latent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(minority) != len(majority) {
		return nil, fmt.Errorf("centroids of size %d and %d: %w", len(minority), len(majority), model.ErrShapeMismatch)
	}
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("invalid radius %v: %w", radius, model.ErrInvalidConfig)
	}
	return &Latent{
		cfg:      cfg,
		minority: minority,
		majority: majority,
		radius:   radius,
		rnd:      rnd,
	}, nil
}

// Accept checks if the point lies in the minority region.
func (l *Latent) Accept(z []float64) bool {
	dA := coinmath.Distance(z, l.minority)
	return dA < coinmath.Distance(z, l.majority) && dA < l.radius
}

// Sample draws candidates until n of them are accepted or the draw budget is spent.
// On exhaustion the points accepted so far are returned.
func (l *Latent) Sample(n int) Draw {
	draw := Draw{Accepted: make([][]float64, 0, n)}
	if n <= 0 {
		return draw
	}
	if l.radius == 0 || len(l.minority) == 0 {
		draw.Exhausted = true
		log.Warn().
			Float64("radius", l.radius).
			Int("target", n).
			Msg("empty minority region")
		return draw
	}
	for len(draw.Accepted) < n {
		if draw.Draws >= l.cfg.MaxDraws {
			draw.Exhausted = true
			break
		}
		z := l.propose()
		draw.Draws++
		if l.Accept(z) {
			draw.Accepted = append(draw.Accepted, z)
		}
	}
	metrics.Observer.Draws(draw.Draws)
	if draw.Exhausted {
		log.Warn().
			Int("draws", draw.Draws).
			Int("accepted", len(draw.Accepted)).
			Int("target", n).
			Str("proposal", string(l.cfg.Proposal)).
			Msg("latent sampler exhausted")
	}
	return draw
}

func (l *Latent) propose() []float64 {
	d := len(l.minority)
	z := make([]float64, d)
	for j := range z {
		z[j] = l.rnd.NormFloat64()
	}
	if l.cfg.Proposal == GaussianProposal {
		return z
	}
	norm := floats.Norm(z, 2)
	for norm == 0 {
		for j := range z {
			z[j] = l.rnd.NormFloat64()
		}
		norm = floats.Norm(z, 2)
	}
	// uniform in the ball, the radius scales with the d-th root
	r := l.radius * math.Pow(l.rnd.Float64(), 1/float64(d))
	floats.Scale(r/norm, z)
	floats.Add(z, l.minority)
	return z
}
