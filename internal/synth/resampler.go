package synth

import (
	"fmt"

	"github.com/drakos74/ddhs/internal/math/ml"
	"github.com/drakos74/ddhs/internal/metrics"
	"github.com/drakos74/ddhs/internal/model"
	"github.com/drakos74/ddhs/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const reportLabel = "report"

// Option configures a Resampler.
type Option func(r *Resampler)

// WithStorage persists the artifacts of every run, each run in its own shard.
func WithStorage(shard storage.Shard) Option {
	return func(r *Resampler) {
		r.shard = shard
	}
}

// WithSource overrides the seeded random source of the config.
func WithSource(src rand.Source) Option {
	return func(r *Resampler) {
		r.src = src
	}
}

// Resampler rebalances a binary labelled dataset,
// by training an autoencoder with class centers and synthesising minority samples in its latent space.
type Resampler struct {
	cfg   Config
	shard storage.Shard
	src   rand.Source
}

// New creates a new resampler.
func New(cfg Config, opts ...Option) (*Resampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, model.NewStageError(model.InputStage, err)
	}
	r := &Resampler{
		cfg:   cfg,
		shard: storage.VoidShard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Fit trains a fresh model on the given samples.
func (r *Resampler) Fit(x model.Table, y model.Labels) (*Fitted, error) {
	run := uuid.New().String()

	dataset := model.NewDataset(x, y, model.DefaultTarget)
	if err := dataset.Validate(); err != nil {
		return nil, fail(run, model.InputStage, err)
	}
	classes, err := y.Resolve()
	if err != nil {
		return nil, fail(run, model.InputStage, err)
	}
	roles, err := classes.Roles(y)
	if err != nil {
		return nil, fail(run, model.InputStage, err)
	}

	var warnings []model.Warning
	if classes.Tied {
		w := model.Warning{
			Stage:   model.InputStage,
			Message: fmt.Sprintf("classes '%s' and '%s' are tied at %d samples, '%s' is used as majority", classes.Majority, classes.Minority, classes.MajorityCount, classes.Majority),
		}
		log.Warn().Str("run", run).Msg(w.Message)
		warnings = append(warnings, w)
	}

	var store storage.Persistence
	store, err = r.shard(run)
	if err != nil {
		w := model.Warning{
			Stage:   model.InputStage,
			Message: fmt.Sprintf("could not open storage, artifacts are not stored: %v", err),
		}
		log.Warn().Err(err).Str("run", run).Msg("could not open storage")
		warnings = append(warnings, w)
		store = storage.NewVoidStorage()
	}

	src := r.src
	if src == nil {
		src = rand.NewSource(r.cfg.Seed)
	}
	rnd := rand.New(src)

	_, d := x.Dims()
	ae, err := ml.NewAutoencoder(ml.Config{
		Input:        d,
		Latent:       d,
		Hidden:       r.cfg.Hidden,
		LearningRate: r.cfg.LearningRate,
		CrossEntropy: r.cfg.CrossEntropy,
	}, rnd)
	if err != nil {
		return nil, fail(run, model.TrainingStage, err)
	}

	indices := make([]int, len(roles))
	for i, role := range roles {
		indices[i] = int(role)
	}
	losses, err := ae.Train(ml.FromRows(x.Rows), indices, r.cfg.Epochs)
	if err != nil {
		return nil, fail(run, model.TrainingStage, err)
	}

	if len(losses) > 0 {
		last := losses[len(losses)-1]
		metrics.Observer.Loss("reconstruction", last.Reconstruction)
		metrics.Observer.Loss("center", last.Center)
		metrics.Observer.Loss("cross-entropy", last.CrossEntropy)
		metrics.Observer.Loss("total", last.Total)
		log.Info().
			Str("run", run).
			Int("epochs", len(losses)).
			Float64("loss", last.Total).
			Msg("trained autoencoder")
	}

	return &Fitted{
		cfg:      r.cfg,
		run:      run,
		columns:  append([]string{}, x.Columns...),
		dim:      d,
		rows:     model.CopyRows(x.Rows),
		roles:    roles,
		classes:  classes,
		ae:       ae,
		losses:   losses,
		rnd:      rnd,
		store:    store,
		warnings: warnings,
	}, nil
}

// FitResample trains a fresh model and generates the rebalanced dataset in one go.
func (r *Resampler) FitResample(x model.Table, y model.Labels) (Result, error) {
	fitted, err := r.Fit(x, y)
	if err != nil {
		return Result{}, err
	}
	return fitted.Generate()
}

func fail(run string, stage model.Stage, err error) error {
	log.Error().Err(err).Str("run", run).Str("stage", string(stage)).Msg("synthesis failed")
	metrics.Observer.Run(string(stage), "error")
	return model.NewStageError(stage, err)
}
