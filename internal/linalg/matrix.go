package linalg

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense row-major float64 matrix.
//
// The shape is fixed at construction. Every kernel that writes into a Matrix
// does so in place, so layers and optimizers can allocate their buffers once
// and reuse them for every pass.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// NewMatrix allocates a zero-filled rows×cols matrix.
//
// Panics if either dimension is not positive.
func NewMatrix(rows, cols int) *Matrix {
	if err := (Shape{Rows: rows, Cols: cols}).Validate(); err != nil {
		panic(err)
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewMatrixFrom wraps data (row-major) as a rows×cols matrix.
//
// The slice is used directly, not copied.
func NewMatrixFrom(rows, cols int, data []float64) (*Matrix, error) {
	shape := Shape{Rows: rows, Cols: cols}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(data) != shape.NumElements() {
		return nil, errors.Errorf("matrix %v needs %d values, got %d", shape, shape.NumElements(), len(data))
	}
	return &Matrix{rows: rows, cols: cols, data: data}, nil
}

// ZerosLike allocates a zero matrix with the same shape as m.
func ZerosLike(m *Matrix) *Matrix {
	return NewMatrix(m.rows, m.cols)
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Shape returns the matrix dimensions.
func (m *Matrix) Shape() Shape {
	return Shape{Rows: m.rows, Cols: m.cols}
}

// Len returns the number of elements.
func (m *Matrix) Len() int { return len(m.data) }

// Data returns the backing row-major slice. Writes are visible to m.
func (m *Matrix) Data() []float64 { return m.data }

// At returns the element at (r, c).
func (m *Matrix) At(r, c int) float64 {
	m.checkIndex(r, c)
	return m.data[r*m.cols+c]
}

// Set stores v at (r, c).
func (m *Matrix) Set(r, c int, v float64) {
	m.checkIndex(r, c)
	m.data[r*m.cols+c] = v
}

// Row returns a view of row r.
func (m *Matrix) Row(r int) []float64 {
	m.checkIndex(r, 0)
	return m.data[r*m.cols : (r+1)*m.cols]
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return &Matrix{rows: m.rows, cols: m.cols, data: data}
}

// CopyFrom overwrites m with the contents of src.
func (m *Matrix) CopyFrom(src *Matrix) {
	mustSameShape("CopyFrom", m, src)
	copy(m.data, src.data)
}

// Zero sets every element to 0.
func (m *Matrix) Zero() {
	clear(m.data)
}

// Fill sets every element to v.
func (m *Matrix) Fill(v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}

// Equal reports whether m and other have the same shape and identical elements.
func (m *Matrix) Equal(other *Matrix) bool {
	if !m.Shape().Equal(other.Shape()) {
		return false
	}
	for i, v := range m.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

func (m *Matrix) checkIndex(r, c int) {
	if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
		panic(errors.Errorf("linalg: index (%d, %d) out of range for %v matrix", r, c, m.Shape()))
	}
}

// dense wraps the backing slice as a gonum matrix without copying.
func (m *Matrix) dense() *mat.Dense {
	return mat.NewDense(m.rows, m.cols, m.data)
}
