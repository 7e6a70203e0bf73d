package evaluate

import (
	"fmt"
	"math"
	"sort"

	"github.com/drakos74/ddhs/internal/math/ml"
	"github.com/drakos74/ddhs/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/evaluation"
	"golang.org/x/exp/rand"
)

// Factory creates a fresh classifier.
type Factory func() ml.Classifier

// Factories returns the available classifiers by name.
func Factories() map[string]Factory {
	return map[string]Factory{
		"knn": func() ml.Classifier {
			return ml.NewKNN(5)
		},
		"forest": func() ml.Classifier {
			return ml.NewForest(50)
		},
	}
}

// Encoder maps feature rows to the space the rebalanced data lives in.
type Encoder interface {
	Encode(rows [][]float64) ([][]float64, error)
}

// Score is the performance of a classifier on a test set.
type Score struct {
	Accuracy float64            `json:"accuracy"`
	Recall   map[string]float64 `json:"recall"`
	F1       map[string]float64 `json:"f1"`
}

// Comparison holds the scores of a classifier trained on the original and on the rebalanced data.
type Comparison struct {
	Classifier string `json:"classifier"`
	Original   Score  `json:"original"`
	Rebalanced Score  `json:"rebalanced"`
}

// Evaluate trains the classifier on the train set and scores it on the test set.
func Evaluate(classifier ml.Classifier, train, test model.Dataset) (Score, error) {
	if err := test.Validate(); err != nil {
		return Score{}, fmt.Errorf("invalid test set: %w", err)
	}
	if err := classifier.Fit(train); err != nil {
		return Score{}, fmt.Errorf("could not train classifier: %w", err)
	}
	predicted, err := classifier.Predict(test)
	if err != nil {
		return Score{}, fmt.Errorf("could not predict: %w", err)
	}

	classes := union(test.Y, predicted)
	ref, err := test.Instances(classes...)
	if err != nil {
		return Score{}, fmt.Errorf("could not convert test set: %w", err)
	}
	gen, err := model.NewDataset(test.X, predicted, test.Target).Instances(classes...)
	if err != nil {
		return Score{}, fmt.Errorf("could not convert predictions: %w", err)
	}
	cm, err := evaluation.GetConfusionMatrix(ref, gen)
	if err != nil {
		return Score{}, fmt.Errorf("could not compute confusion matrix: %w", err)
	}
	log.Debug().Msg(evaluation.GetSummary(cm))

	score := Score{
		Accuracy: evaluation.GetAccuracy(cm),
		Recall:   make(map[string]float64),
		F1:       make(map[string]float64),
	}
	for class := range test.Y.Counts() {
		score.Recall[class] = finite(evaluation.GetRecall(class, cm))
		score.F1[class] = finite(evaluation.GetF1Score(class, cm))
	}
	return score, nil
}

// Compare scores the classifier once trained on the original and once on the rebalanced data.
// If an encoder is given, the test features are encoded before scoring the rebalanced model.
func Compare(name string, factory Factory, original, rebalanced, test model.Dataset, enc Encoder) (Comparison, error) {
	baseline, err := Evaluate(factory(), original, test)
	if err != nil {
		return Comparison{}, fmt.Errorf("could not evaluate '%s' on original data: %w", name, err)
	}

	target := test
	if enc != nil {
		rows, err := enc.Encode(test.X.Rows)
		if err != nil {
			return Comparison{}, fmt.Errorf("could not encode test set: %w", err)
		}
		target = model.NewDataset(model.NewTable(test.X.Columns, rows), test.Y, test.Target)
	}
	score, err := Evaluate(factory(), rebalanced, target)
	if err != nil {
		return Comparison{}, fmt.Errorf("could not evaluate '%s' on rebalanced data: %w", name, err)
	}

	log.Info().
		Str("classifier", name).
		Float64("original", baseline.Accuracy).
		Float64("rebalanced", score.Accuracy).
		Msg("evaluated rebalancing")
	return Comparison{
		Classifier: name,
		Original:   baseline,
		Rebalanced: score,
	}, nil
}

// Split splits the dataset into a train and a test set, keeping the class proportions.
// fraction is the share of every class that goes into the test set.
func Split(d model.Dataset, fraction float64, rnd *rand.Rand) (model.Dataset, model.Dataset) {
	byClass := make(map[string][]int)
	for i, label := range d.Y {
		byClass[label] = append(byClass[label], i)
	}

	train := model.NewDataset(model.NewTable(d.X.Columns, nil), model.Labels{}, d.Target)
	test := model.NewDataset(model.NewTable(d.X.Columns, nil), model.Labels{}, d.Target)
	for _, class := range union(d.Y) {
		indices := byClass[class]
		rnd.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		n := int(fraction * float64(len(indices)))
		for k, i := range indices {
			if k < n {
				test.Append([][]float64{d.X.Rows[i]}, class)
			} else {
				train.Append([][]float64{d.X.Rows[i]}, class)
			}
		}
	}
	return train, test
}

// finite maps undefined ratios, e.g. the precision of a class never predicted, to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func union(ll ...model.Labels) []string {
	seen := make(map[string]bool)
	classes := make([]string, 0)
	for _, labels := range ll {
		for _, label := range labels {
			if !seen[label] {
				seen[label] = true
				classes = append(classes, label)
			}
		}
	}
	sort.Strings(classes)
	return classes
}
