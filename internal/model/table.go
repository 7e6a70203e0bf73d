package model

import (
	"fmt"
	"math"
)

// Table is a row-major matrix of numeric features with named columns.
type Table struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// NewTable creates a new table for the given columns and rows.
func NewTable(columns []string, rows [][]float64) Table {
	return Table{
		Columns: columns,
		Rows:    rows,
	}
}

// Dims returns the number of rows and columns of the table.
func (t Table) Dims() (int, int) {
	return len(t.Rows), len(t.Columns)
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Column returns a copy of the values in column j.
func (t Table) Column(j int) []float64 {
	col := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[j]
	}
	return col
}

// Select returns a new table with the rows for which the mask is set.
func (t Table) Select(mask []bool) Table {
	rows := make([][]float64, 0)
	for i, ok := range mask {
		if ok {
			rows = append(rows, Copy(t.Rows[i]))
		}
	}
	return NewTable(t.Columns, rows)
}

// Validate checks that the table is rectangular and carries only finite values.
func (t Table) Validate() error {
	if len(t.Columns) == 0 || len(t.Rows) == 0 {
		return fmt.Errorf("table with %d rows and %d columns: %w", len(t.Rows), len(t.Columns), ErrEmptyInput)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d values for %d columns: %w", i, len(row), len(t.Columns), ErrShapeMismatch)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("value at [%d,%d] is %v: %w", i, j, v, ErrNonFinite)
			}
		}
	}
	return nil
}

// Copy copies the given row, so that the caller can mutate it freely.
func Copy(row []float64) []float64 {
	c := make([]float64, len(row))
	copy(c, row)
	return c
}

// CopyRows copies all the given rows.
func CopyRows(rows [][]float64) [][]float64 {
	c := make([][]float64, len(rows))
	for i, row := range rows {
		c[i] = Copy(row)
	}
	return c
}
