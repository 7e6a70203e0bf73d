package evaluate

import (
	"testing"

	"github.com/drakos74/ddhs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func imbalanced(seed uint64, minority, majority int) model.Dataset {
	rnd := rand.New(rand.NewSource(seed))
	d := model.NewDataset(model.NewTable([]string{"a", "b"}, nil), model.Labels{}, "class")
	for i := 0; i < minority; i++ {
		d.Append([][]float64{{3 + rnd.NormFloat64()*0.5, 3 + rnd.NormFloat64()*0.5}}, "rare")
	}
	for i := 0; i < majority; i++ {
		d.Append([][]float64{{rnd.NormFloat64() * 0.5, rnd.NormFloat64() * 0.5}}, "common")
	}
	return d
}

// shift is an encoder moving every row by a constant offset.
type shift float64

func (s shift) Encode(rows [][]float64) ([][]float64, error) {
	encoded := make([][]float64, len(rows))
	for i, row := range rows {
		encoded[i] = make([]float64, len(row))
		for j, v := range row {
			encoded[i][j] = v + float64(s)
		}
	}
	return encoded, nil
}

func TestSplit(t *testing.T) {
	d := imbalanced(1, 20, 80)
	train, test := Split(d, 0.25, rand.New(rand.NewSource(1)))
	assert.Equal(t, 100, train.Len()+test.Len())
	assert.Equal(t, map[string]int{"rare": 5, "common": 20}, test.Y.Counts())
	assert.Equal(t, map[string]int{"rare": 15, "common": 60}, train.Y.Counts())
	assert.Equal(t, "class", test.Target)
	require.NoError(t, train.Validate())
}

func TestCompare(t *testing.T) {

	type test struct {
		encoder Encoder
		offset  float64
	}

	tests := map[string]test{
		"features": {},
		"encoded": {
			encoder: shift(10),
			offset:  10,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := imbalanced(2, 30, 120)
			train, test := Split(d, 0.3, rand.New(rand.NewSource(2)))

			// the rebalanced set lives in the encoded space
			rebalanced, err := shift(tt.offset).Encode(train.X.Rows)
			require.NoError(t, err)
			balanced := model.NewDataset(model.NewTable(train.X.Columns, rebalanced), train.Y, train.Target)

			for classifier, factory := range Factories() {
				comparison, err := Compare(classifier, factory, train, balanced, test, tt.encoder)
				require.NoError(t, err)
				assert.Equal(t, classifier, comparison.Classifier)
				assert.Greater(t, comparison.Original.Accuracy, 0.9)
				assert.Greater(t, comparison.Rebalanced.Accuracy, 0.9)
				assert.Greater(t, comparison.Rebalanced.Recall["rare"], 0.8)
				assert.Contains(t, comparison.Original.F1, "common")
			}
		})
	}
}

func TestEvaluate_Invalid(t *testing.T) {
	d := imbalanced(3, 5, 5)
	invalid := model.NewDataset(d.X, d.Y[1:], d.Target)
	_, err := Evaluate(Factories()["knn"](), d, invalid)
	assert.Error(t, err)
}
