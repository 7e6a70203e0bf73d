package synth

import (
	"fmt"
	"math"
	"time"

	"github.com/drakos74/ddhs/internal/density"
	coinmath "github.com/drakos74/ddhs/internal/math"
	"github.com/drakos74/ddhs/internal/math/ml"
	"github.com/drakos74/ddhs/internal/metrics"
	"github.com/drakos74/ddhs/internal/model"
	"github.com/drakos74/ddhs/internal/sample"
	"github.com/drakos74/ddhs/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Fitted is a trained model, ready to generate rebalanced datasets.
type Fitted struct {
	cfg      Config
	run      string
	columns  []string
	dim      int
	rows     [][]float64
	roles    []model.Role
	classes  model.Classes
	ae       *ml.Autoencoder
	losses   []ml.Loss
	rnd      *rand.Rand
	store    storage.Persistence
	warnings []model.Warning
}

// Run returns the id of the run.
func (f *Fitted) Run() string {
	return f.run
}

// Classes returns the resolved minority and majority classes.
func (f *Fitted) Classes() model.Classes {
	return f.classes
}

// Losses returns the loss of every training epoch.
func (f *Fitted) Losses() []ml.Loss {
	return append([]ml.Loss{}, f.losses...)
}

// Encode maps feature rows to the latent space.
func (f *Fitted) Encode(rows [][]float64) ([][]float64, error) {
	if err := f.check(rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return [][]float64{}, nil
	}
	return ml.ToRows(f.ae.Encode(ml.FromRows(rows))), nil
}

// Decode maps latent rows back to the feature space.
func (f *Fitted) Decode(rows [][]float64) ([][]float64, error) {
	if err := f.check(rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return [][]float64{}, nil
	}
	return ml.ToRows(f.ae.Decode(ml.FromRows(rows))), nil
}

// Store persists the value as an artifact of the run.
func (f *Fitted) Store(label string, value interface{}) error {
	return f.store.Store(storage.Key{Run: f.run, Label: label}, value)
}

func (f *Fitted) check(rows [][]float64) error {
	for i, row := range rows {
		if len(row) != f.dim {
			return fmt.Errorf("row %d has %d values for %d dimensions: %w", i, len(row), f.dim, model.ErrShapeMismatch)
		}
	}
	return nil
}

// Generate synthesises the rebalanced dataset.
// The output holds the majority core window, the minority core window
// and the synthetic minority samples, in that order.
func (f *Fitted) Generate() (Result, error) {
	report := Report{
		Run:      f.run,
		Time:     time.Now(),
		Config:   f.cfg,
		Classes:  f.classes,
		Losses:   f.Losses(),
		Warnings: append([]model.Warning{}, f.warnings...),
	}

	z, err := f.Encode(f.rows)
	if err != nil {
		return Result{}, fail(f.run, model.SynthesisStage, err)
	}
	var minority, majority [][]float64
	indices := make([]int, len(z))
	for i, role := range f.roles {
		indices[i] = int(role)
		if role == model.Minority {
			minority = append(minority, z[i])
		} else {
			majority = append(majority, z[i])
		}
	}

	extractor, err := density.New(f.cfg.Density)
	if err != nil {
		return Result{}, fail(f.run, model.ExtractionStage, err)
	}
	extract := func(name string, rows [][]float64, start, end float64) ([][]float64, error) {
		selection, err := extractor.Extract(rows, start, end)
		if err != nil {
			return nil, err
		}
		report.Windows = append(report.Windows, Window{
			Name:     name,
			Start:    start,
			End:      end,
			Method:   string(selection.Method),
			Input:    len(rows),
			Selected: len(selection.Rows),
		})
		if selection.Empty() {
			report.Warnings = append(report.Warnings, model.Warning{
				Stage:   model.ExtractionStage,
				Window:  name,
				Message: fmt.Sprintf("none of %d rows within density band [%v,%v]", len(rows), start, end),
			})
		}
		return selection.Rows, nil
	}

	start, end := coinmath.Band(f.cfg.LargePercent)
	majorityCore, err := extract(MajorityWindow, majority, start, end)
	if err != nil {
		return Result{}, fail(f.run, model.ExtractionStage, err)
	}
	start, end = coinmath.Band(f.cfg.SmallPercent)
	minorityCore, err := extract(MinorityWindow, minority, start, end)
	if err != nil {
		return Result{}, fail(f.run, model.ExtractionStage, err)
	}

	resampleCore, err := extract(ResampleWindow, minority, f.cfg.ResampleWindow[0], f.cfg.ResampleWindow[1])
	if err != nil {
		return Result{}, fail(f.run, model.ResamplingStage, err)
	}
	resampled, err := sample.Reconstruct(resampleCore, f.rnd)
	if err != nil {
		return Result{}, fail(f.run, model.ResamplingStage, err)
	}

	cA := coinmath.Centroid(minority)
	cB := coinmath.Centroid(majority)
	rA := coinmath.Radius(cA, minority)
	report.Centroids[model.Minority] = cA
	report.Centroids[model.Majority] = cB
	report.Radius = rA

	sampler, err := sample.NewLatent(f.cfg.Sampler, cA, cB, rA, f.rnd)
	if err != nil {
		return Result{}, fail(f.run, model.SynthesisStage, err)
	}
	// sample until the synthetic samples reach the ratio of the minority size
	target := int(math.Ceil(f.cfg.Ratio*float64(len(minority)))) - len(resampled)
	draw := sampler.Sample(target)
	if draw.Exhausted {
		report.Warnings = append(report.Warnings, model.Warning{
			Stage:   model.SynthesisStage,
			Message: fmt.Sprintf("accepted %d of %d latent samples after %d draws", len(draw.Accepted), target, draw.Draws),
		})
	}
	report.Resampled = len(resampled)
	report.Accepted = len(draw.Accepted)
	report.Draws = draw.Draws
	report.Exhausted = draw.Exhausted
	metrics.Observer.Synthetic(ResampleWindow, len(resampled))
	metrics.Observer.Synthetic("latent", len(draw.Accepted))

	if f.cfg.PurityIterations > 0 {
		purity, err := ml.Purity(z, indices, f.cfg.PurityIterations)
		if err != nil {
			log.Warn().Err(err).Str("run", f.run).Msg("could not compute latent purity")
		} else {
			report.Purity = purity
		}
	}

	dataset := model.NewDataset(model.NewTable(append([]string{}, f.columns...), nil), model.Labels{}, model.DefaultTarget)
	parts := []struct {
		rows  [][]float64
		label string
	}{
		{rows: majorityCore, label: f.classes.Majority},
		{rows: minorityCore, label: f.classes.Minority},
		{rows: resampled, label: f.classes.Minority},
		{rows: draw.Accepted, label: f.classes.Minority},
	}
	for _, part := range parts {
		rows := part.rows
		if f.cfg.Space == FeatureSpace {
			rows, err = f.Decode(rows)
			if err != nil {
				return Result{}, fail(f.run, model.SynthesisStage, err)
			}
		}
		dataset.Append(rows, part.label)
	}
	report.Output = dataset.Y.Counts()

	log.Info().
		Str("run", f.run).
		Int("majority", len(majorityCore)).
		Int("minority", len(minorityCore)).
		Int("resampled", len(resampled)).
		Int("accepted", len(draw.Accepted)).
		Int("draws", draw.Draws).
		Int("warnings", len(report.Warnings)).
		Msg("generated dataset")

	if err := f.Store(reportLabel, report); err != nil {
		log.Error().Err(err).Str("run", f.run).Msg("could not store report")
		report.Warnings = append(report.Warnings, model.Warning{
			Stage:   model.SynthesisStage,
			Message: fmt.Sprintf("could not store report: %v", err),
		})
	}
	metrics.Observer.Run(string(model.SynthesisStage), "ok")

	return Result{
		Dataset: dataset,
		Report:  report,
	}, nil
}
