package file

import (
	"fmt"
	"strconv"

	"github.com/drakos74/ddhs/internal/model"
	"github.com/rs/zerolog/log"
	"github.com/sjwhitworth/golearn/base"
)

// LoadCSV reads a labelled dataset from the given csv file.
// All columns but the last one are numeric features, the last column is the label.
func LoadCSV(path string, hasHeaders bool) (model.Dataset, error) {
	inst, err := base.ParseCSVToInstances(path, hasHeaders)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("could not parse csv file '%s': %w", path, err)
	}

	classAttrs := inst.AllClassAttributes()
	if len(classAttrs) != 1 {
		return model.Dataset{}, fmt.Errorf("found %d label columns in '%s': %w", len(classAttrs), path, model.ErrShapeMismatch)
	}
	class := classAttrs[0]
	classSpec, err := inst.GetAttribute(class)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("could not resolve label column: %w", err)
	}

	attrs := base.NonClassAttributes(inst)
	columns := make([]string, len(attrs))
	specs := make([]base.AttributeSpec, len(attrs))
	for j, attr := range attrs {
		if _, ok := attr.(*base.FloatAttribute); !ok {
			return model.Dataset{}, fmt.Errorf("column '%s' is not numeric: %w", attr.GetName(), model.ErrShapeMismatch)
		}
		spec, err := inst.GetAttribute(attr)
		if err != nil {
			return model.Dataset{}, fmt.Errorf("could not resolve column '%s': %w", attr.GetName(), err)
		}
		columns[j] = attr.GetName()
		specs[j] = spec
	}

	_, n := inst.Size()
	rows := make([][]float64, n)
	labels := make(model.Labels, n)
	for i := 0; i < n; i++ {
		row := make([]float64, len(specs))
		for j, spec := range specs {
			row[j] = base.UnpackBytesToFloat(inst.Get(spec, i))
		}
		rows[i] = row
		labels[i] = label(class, inst.Get(classSpec, i))
	}

	log.Info().
		Str("path", path).
		Int("rows", n).
		Strs("columns", columns).
		Str("target", class.GetName()).
		Msg("loaded dataset")
	return model.NewDataset(model.NewTable(columns, rows), labels, class.GetName()), nil
}

// label formats numeric labels without trailing decimals, so that '1' and '1.0' resolve to the same class.
func label(attr base.Attribute, v []byte) string {
	if _, ok := attr.(*base.FloatAttribute); ok {
		return strconv.FormatFloat(base.UnpackBytesToFloat(v), 'f', -1, 64)
	}
	return attr.GetStringFromSysVal(v)
}

// SaveCSV writes the dataset as csv with a header line, the label as last column.
func SaveCSV(path string, dataset model.Dataset) error {
	classes := make([]string, 0)
	for c := range dataset.Y.Counts() {
		classes = append(classes, c)
	}
	inst, err := dataset.Instances(classes...)
	if err != nil {
		return fmt.Errorf("could not convert dataset: %w", err)
	}
	if err := base.SerializeInstancesToCSV(inst, path); err != nil {
		return fmt.Errorf("could not write csv file '%s': %w", path, err)
	}
	log.Info().
		Str("path", path).
		Int("rows", dataset.Len()).
		Msg("saved dataset")
	return nil
}
