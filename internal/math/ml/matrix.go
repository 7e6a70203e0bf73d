package ml

import "gonum.org/v1/gonum/mat"

// FromRows packs the rows into a dense matrix.
func FromRows(rows [][]float64) *mat.Dense {
	if len(rows) == 0 {
		return nil
	}
	n, d := len(rows), len(rows[0])
	data := make([]float64, 0, n*d)
	for _, row := range rows {
		data = append(data, row...)
	}
	return mat.NewDense(n, d, data)
}

// ToRows unpacks the dense matrix into a copy of its rows.
func ToRows(m *mat.Dense) [][]float64 {
	if m == nil {
		return [][]float64{}
	}
	n, d := m.Dims()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, d)
		mat.Row(row, i, m)
		rows[i] = row
	}
	return rows
}
