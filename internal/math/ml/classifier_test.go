package ml

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/drakos74/ddhs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func separable(seed uint64, n int) model.Dataset {
	rnd := rand.New(rand.NewSource(seed))
	rows, classes := twoClusters(rnd, n)
	labels := make(model.Labels, len(classes))
	for i, c := range classes {
		labels[i] = fmt.Sprintf("c%d", c)
	}
	return model.NewDataset(model.NewTable([]string{"a", "b", "c"}, rows), labels, "class")
}

func accuracy(actual, predicted model.Labels) float64 {
	var hits int
	for i := range actual {
		if actual[i] == predicted[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(actual))
}

func TestClassifiers(t *testing.T) {

	type test struct {
		classifier Classifier
	}

	tests := map[string]test{
		"forest": {
			classifier: NewForest(20),
		},
		"knn": {
			classifier: NewKNN(3),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			train := separable(1, 50)
			test := separable(2, 20)

			err := tt.classifier.Fit(train)
			require.NoError(t, err)

			predicted, err := tt.classifier.Predict(test)
			require.NoError(t, err)
			require.Len(t, predicted, test.Len())
			assert.Greater(t, accuracy(test.Y, predicted), 0.9)
		})
	}
}

func TestClassifiers_NotTrained(t *testing.T) {
	test := separable(2, 5)
	_, err := NewForest(3).Predict(test)
	assert.Error(t, err)
	_, err = NewKNN(3).Predict(test)
	assert.Error(t, err)
}

func TestPurity(t *testing.T) {
	train := separable(3, 50)
	classes := make([]int, train.Len())
	for i, label := range train.Y {
		if label == "c1" {
			classes[i] = 1
		}
	}
	purity, err := Purity(train.X.Rows, classes, 30)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, purity, 0.05)

	_, err = Purity(train.X.Rows, classes[1:], 30)
	assert.Error(t, err)
}

func TestPurity_Quiet(t *testing.T) {
	train := separable(4, 20)
	classes := make([]int, train.Len())
	for i, label := range train.Y {
		if label == "c1" {
			classes[i] = 1
		}
	}

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	_, err = Purity(train.X.Rows, classes, 10)
	os.Stdout = stdout
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	// stdout is reserved for the command output
	assert.Empty(t, string(out))

	n, err := debugWriter{}.Write([]byte("Training Completed\n"))
	require.NoError(t, err)
	assert.Equal(t, 19, n)
}
