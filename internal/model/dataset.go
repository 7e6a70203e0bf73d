package model

import (
	"fmt"

	"github.com/sjwhitworth/golearn/base"
)

// DefaultTarget is the label column name when none is given.
const DefaultTarget = "label"

// floatPrecision is the number of decimals used when serialising features.
const floatPrecision = 8

// Dataset is a feature table with its row aligned labels.
type Dataset struct {
	X      Table  `json:"x"`
	Y      Labels `json:"y"`
	Target string `json:"target"`
}

// NewDataset creates a new dataset.
func NewDataset(x Table, y Labels, target string) Dataset {
	if target == "" {
		target = DefaultTarget
	}
	return Dataset{
		X:      x,
		Y:      y,
		Target: target,
	}
}

// Validate checks the feature table and the label alignment.
func (d Dataset) Validate() error {
	if err := d.X.Validate(); err != nil {
		return err
	}
	if len(d.Y) != len(d.X.Rows) {
		return fmt.Errorf("%d labels for %d rows: %w", len(d.Y), len(d.X.Rows), ErrShapeMismatch)
	}
	return nil
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.X.Rows)
}

// Append adds the rows with the given label.
func (d *Dataset) Append(rows [][]float64, label string) {
	for _, row := range rows {
		d.X.Rows = append(d.X.Rows, Copy(row))
		d.Y = append(d.Y, label)
	}
}

// Instances converts the dataset into golearn instances,
// with one float attribute per column and the labels as categorical class attribute.
// The given class values are registered first and in order,
// so that instances built from different datasets stay compatible.
func (d Dataset) Instances(classes ...string) (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(d.X.Columns))
	for j, column := range d.X.Columns {
		attr := base.NewFloatAttribute(column)
		attr.Precision = floatPrecision
		specs[j] = inst.AddAttribute(attr)
	}
	class := base.NewCategoricalAttribute()
	target := d.Target
	if target == "" {
		target = DefaultTarget
	}
	class.SetName(target)
	for _, c := range classes {
		class.GetSysValFromString(c)
	}
	classSpec := inst.AddAttribute(class)
	if err := inst.AddClassAttribute(class); err != nil {
		return nil, fmt.Errorf("could not add class attribute '%s': %w", target, err)
	}
	if err := inst.Extend(len(d.X.Rows)); err != nil {
		return nil, fmt.Errorf("could not allocate %d rows: %w", len(d.X.Rows), err)
	}
	for i, row := range d.X.Rows {
		if len(row) != len(specs) {
			return nil, fmt.Errorf("row %d has %d values for %d columns: %w", i, len(row), len(specs), ErrShapeMismatch)
		}
		for j, v := range row {
			inst.Set(specs[j], i, base.PackFloatToBytes(v))
		}
		if i < len(d.Y) {
			inst.Set(classSpec, i, class.GetSysValFromString(d.Y[i]))
		}
	}
	return inst, nil
}
