package ml

import (
	"fmt"
	"sort"

	"github.com/drakos74/ddhs/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/knn"
)

// KNN is a k-nearest-neighbours classifier on euclidean distance.
type KNN struct {
	k       int
	classes []string
	cls     *knn.KNNClassifier
}

// NewKNN creates a new knn classifier voting over k neighbours.
func NewKNN(k int) *KNN {
	return &KNN{k: k}
}

// Fit keeps the training instances for the neighbour search.
func (n *KNN) Fit(train model.Dataset) error {
	counts := train.Y.Counts()
	classes := make([]string, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	inst, err := train.Instances(classes...)
	if err != nil {
		return fmt.Errorf("could not create training instances: %w", err)
	}
	cls := knn.NewKnnClassifier("euclidean", "linear", n.k)
	if err := cls.Fit(inst); err != nil {
		log.Error().Err(err).Msg("could not train knn model")
		return fmt.Errorf("could not train knn model: %w", err)
	}
	n.cls = cls
	n.classes = classes
	return nil
}

// Predict returns the majority label of the k nearest training samples for each row.
func (n *KNN) Predict(test model.Dataset) (model.Labels, error) {
	if n.cls == nil {
		return nil, fmt.Errorf("no knn model present")
	}
	// labels are irrelevant for the prediction, but the class attribute must match the training one
	probe := model.NewDataset(test.X, make(model.Labels, len(test.X.Rows)), test.Target)
	for i := range probe.Y {
		probe.Y[i] = n.classes[0]
	}
	inst, err := probe.Instances(n.classes...)
	if err != nil {
		return nil, fmt.Errorf("could not create test instances: %w", err)
	}
	predictions, err := n.cls.Predict(inst)
	if err != nil {
		log.Error().Err(err).Msg("could not predict on knn model")
		return nil, fmt.Errorf("could not predict on knn model: %w", err)
	}
	_, rows := predictions.Size()
	labels := make(model.Labels, rows)
	for i := 0; i < rows; i++ {
		labels[i] = base.GetClass(predictions, i)
	}
	return labels, nil
}
