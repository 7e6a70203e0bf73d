package model

import (
	"errors"
	"math"
	"testing"

	"github.com/sjwhitworth/golearn/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabels_Resolve(t *testing.T) {

	type test struct {
		labels  Labels
		classes Classes
		err     error
	}

	tests := map[string]test{
		"imbalanced": {
			labels: Labels{"a", "b", "b", "b"},
			classes: Classes{
				Minority:      "a",
				Majority:      "b",
				MinorityCount: 1,
				MajorityCount: 3,
			},
		},
		"imbalanced-reverse": {
			labels: Labels{"x", "y", "x", "x"},
			classes: Classes{
				Minority:      "y",
				Majority:      "x",
				MinorityCount: 1,
				MajorityCount: 3,
			},
		},
		"tied": {
			labels: Labels{"z", "a", "a", "z"},
			classes: Classes{
				Minority:      "z",
				Majority:      "a",
				MinorityCount: 2,
				MajorityCount: 2,
				Tied:          true,
			},
		},
		"single": {
			labels: Labels{"a", "a"},
			err:    ErrClassCount,
		},
		"three": {
			labels: Labels{"a", "b", "c"},
			err:    ErrClassCount,
		},
		"empty": {
			labels: Labels{},
			err:    ErrClassCount,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			classes, err := tt.labels.Resolve()
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.classes, classes)
		})
	}
}

func TestClasses_Roles(t *testing.T) {
	classes, err := Labels{"a", "b", "b"}.Resolve()
	require.NoError(t, err)

	roles, err := classes.Roles(Labels{"a", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []Role{Minority, Majority, Minority}, roles)
	assert.Equal(t, "a", classes.Label(Minority))
	assert.Equal(t, "b", classes.Label(Majority))
	assert.Equal(t, "minority", Minority.String())
	assert.Equal(t, "majority", Majority.String())

	_, err = classes.Roles(Labels{"a", "c"})
	assert.True(t, errors.Is(err, ErrClassCount))
}

func TestTable(t *testing.T) {
	table := NewTable([]string{"a", "b"}, [][]float64{{1, 2}, {3, 4}, {5, 6}})
	n, d := table.Dims()
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, d)
	assert.Equal(t, []float64{2, 4, 6}, table.Column(1))

	selected := table.Select([]bool{true, false, true})
	assert.Equal(t, [][]float64{{1, 2}, {5, 6}}, selected.Rows)
	selected.Rows[0][0] = 100
	assert.Equal(t, 1.0, table.Rows[0][0])

	assert.NoError(t, table.Validate())
	assert.True(t, errors.Is(NewTable([]string{"a"}, nil).Validate(), ErrEmptyInput))
	assert.True(t, errors.Is(NewTable([]string{"a"}, [][]float64{{1, 2}}).Validate(), ErrShapeMismatch))
	assert.True(t, errors.Is(NewTable([]string{"a"}, [][]float64{{math.Inf(1)}}).Validate(), ErrNonFinite))
}

func TestDataset_Instances(t *testing.T) {
	d := NewDataset(NewTable([]string{"a", "b"}, [][]float64{{1.5, 2}, {3, 4.25}}), Labels{"y", "x"}, "")
	assert.Equal(t, DefaultTarget, d.Target)
	require.NoError(t, d.Validate())

	inst, err := d.Instances("x", "y")
	require.NoError(t, err)
	cols, rows := inst.Size()
	assert.Equal(t, 3, cols)
	assert.Equal(t, 2, rows)
	assert.Equal(t, "y", base.GetClass(inst, 0))
	assert.Equal(t, "x", base.GetClass(inst, 1))

	d.Append([][]float64{{0, 0}}, "x")
	assert.Equal(t, 3, d.Len())
	assert.True(t, errors.Is(NewDataset(d.X, Labels{"x"}, "").Validate(), ErrShapeMismatch))
}

func TestStageError(t *testing.T) {
	err := NewStageError(TrainingStage, ErrNonFinite)
	assert.True(t, errors.Is(err, ErrNonFinite))
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, TrainingStage, stageErr.Stage)
	assert.Equal(t, "training stage failed: non-finite value", err.Error())

	w := Warning{Stage: ExtractionStage, Window: "minority", Message: "empty"}
	assert.Equal(t, "[extraction:minority] empty", w.String())
}
