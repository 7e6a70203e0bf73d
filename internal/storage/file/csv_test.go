package file

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/drakos74/ddhs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {

	type test struct {
		content string
		labels  model.Labels
	}

	tests := map[string]test{
		"categorical": {
			content: "a,b,class\n1.5,2,yes\n3,4.25,no\n5,6,yes\n",
			labels:  model.Labels{"yes", "no", "yes"},
		},
		"numeric": {
			content: "a,b,class\n1.5,2,1\n3,4.25,0\n5,6,1\n",
			labels:  model.Labels{"1", "0", "1"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.csv")
			err := ioutil.WriteFile(path, []byte(tt.content), 0600)
			require.NoError(t, err)

			dataset, err := LoadCSV(path, true)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, dataset.X.Columns)
			assert.Equal(t, "class", dataset.Target)
			assert.Equal(t, tt.labels, dataset.Y)
			require.Len(t, dataset.X.Rows, 3)
			assert.InDelta(t, 1.5, dataset.X.Rows[0][0], 1e-9)
			assert.InDelta(t, 4.25, dataset.X.Rows[1][1], 1e-9)
		})
	}
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	dataset := model.NewDataset(
		model.NewTable([]string{"x", "y"}, [][]float64{{0.5, 1}, {2, 3.125}}),
		model.Labels{"minority", "majority"},
		"class",
	)
	err := SaveCSV(path, dataset)
	require.NoError(t, err)

	loaded, err := LoadCSV(path, true)
	require.NoError(t, err)
	assert.Equal(t, dataset.X.Columns, loaded.X.Columns)
	assert.Equal(t, dataset.Y, loaded.Y)
	assert.InDelta(t, 3.125, loaded.X.Rows[1][1], 1e-6)
}
