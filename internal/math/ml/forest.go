package ml

import (
	"fmt"
	"sort"

	"github.com/drakos74/ddhs/internal/model"
	randomforest "github.com/malaschitz/randomForest"
	"github.com/rs/zerolog/log"
)

// Classifier is a supervised model over labelled datasets.
type Classifier interface {
	Fit(train model.Dataset) error
	Predict(test model.Dataset) (model.Labels, error)
}

// RandomForest is a random forest classifier.
type RandomForest struct {
	trees  int
	labels []string
	forest *randomforest.Forest
}

// NewForest creates a new random forest with n trees.
func NewForest(n int) *RandomForest {
	return &RandomForest{
		trees: n,
	}
}

// Fit trains the forest on the dataset.
func (rf *RandomForest) Fit(train model.Dataset) error {
	if err := train.Validate(); err != nil {
		return fmt.Errorf("could not train forest: %w", err)
	}
	counts := train.Y.Counts()
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	classes := make([]int, len(train.Y))
	for i, label := range train.Y {
		classes[i] = index[label]
	}

	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: model.CopyRows(train.X.Rows), Class: classes}
	forest.Train(rf.trees)
	rf.forest = forest
	rf.labels = labels
	log.Debug().
		Int("trees", rf.trees).
		Int("samples", len(classes)).
		Strs("labels", labels).
		Msg("trained forest")
	return nil
}

// Predict returns the label with the most votes for each row.
func (rf *RandomForest) Predict(test model.Dataset) (model.Labels, error) {
	if rf.forest == nil {
		return nil, fmt.Errorf("no forest present")
	}
	predictions := make(model.Labels, len(test.X.Rows))
	for i, row := range test.X.Rows {
		votes := rf.forest.Vote(row)
		best := 0
		for c, v := range votes {
			if v > votes[best] {
				best = c
			}
		}
		if best >= len(rf.labels) {
			return nil, fmt.Errorf("vote for unknown class %d", best)
		}
		predictions[i] = rf.labels[best]
	}
	return predictions, nil
}
