// Package mat implements the dense row-major matrices the network trains.
// Every matrix carries a gradient buffer next to its weights; only the
// weights survive serialization.
package mat

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/rand"
)

// Mat is a dense Rows x Cols matrix of float64 weights with an accumulated
// gradient of the same shape.
type Mat struct {
	Rows, Cols int
	W          []float64 // weights, len Rows*Cols
	Dw         []float64 // accumulated gradients, same length
}

// New returns a zero matrix of the given shape.
func New(rows, cols int) *Mat {
	return &Mat{
		Rows: rows,
		Cols: cols,
		W:    make([]float64, rows*cols),
		Dw:   make([]float64, rows*cols),
	}
}

// NewRand returns a matrix with weights drawn uniformly from [lo, hi) using
// the process-wide math/rand source.
func NewRand(rows, cols int, lo, hi float64) *Mat {
	m := New(rows, cols)
	for i := range m.W {
		m.W[i] = lo + (hi-lo)*rand.Float64()
	}
	return m
}

// FromRows builds a matrix out of equal-length rows.
func FromRows(rows [][]float64) (*Mat, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("mat: no rows")
	}
	cols := len(rows[0])
	m := New(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("mat: row %d has %d columns; want %d", r, len(row), cols)
		}
		copy(m.Row(r), row)
	}
	return m, nil
}

// Row returns the r-th weight row, aliasing the matrix storage.
func (m *Mat) Row(r int) []float64 {
	return m.W[r*m.Cols : (r+1)*m.Cols]
}

// GradRow returns the r-th gradient row, aliasing the matrix storage.
func (m *Mat) GradRow(r int) []float64 {
	return m.Dw[r*m.Cols : (r+1)*m.Cols]
}

// At returns the weight at row r, column c.
func (m *Mat) At(r, c int) float64 {
	return m.W[r*m.Cols+c]
}

// Set stores v at row r, column c.
func (m *Mat) Set(r, c int, v float64) {
	m.W[r*m.Cols+c] = v
}

// Copy returns a matrix with the same weights and a clean gradient.
func (m *Mat) Copy() *Mat {
	c := New(m.Rows, m.Cols)
	copy(c.W, m.W)
	return c
}

// ZeroGrad clears the accumulated gradient.
func (m *Mat) ZeroGrad() {
	for i := range m.Dw {
		m.Dw[i] = 0
	}
}

// matState is the serialized form: shape and weights, no gradients.
type matState struct {
	Rows, Cols int
	W          []float64
}

// GobEncode encodes the shape and weights.
func (m *Mat) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(matState{Rows: m.Rows, Cols: m.Cols, W: m.W})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores the shape and weights and allocates a fresh gradient.
func (m *Mat) GobDecode(p []byte) error {
	var st matState
	if err := gob.NewDecoder(bytes.NewReader(p)).Decode(&st); err != nil {
		return err
	}
	if len(st.W) != st.Rows*st.Cols {
		return fmt.Errorf("mat: %dx%d matrix with %d weights", st.Rows, st.Cols, len(st.W))
	}
	m.Rows, m.Cols = st.Rows, st.Cols
	m.W = st.W
	m.Dw = make([]float64, len(st.W))
	return nil
}
