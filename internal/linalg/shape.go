// Package linalg implements the dense matrix and vector kernels used by the
// dagnet graph engine.
//
// Matrices are row-major float64 buffers. Vectors are plain []float64 slices
// so layers can own them as scratch buffers and hand them to the kernels
// without wrapping. Heavy lifting is delegated to gonum (mat for products,
// floats for elementwise arithmetic).
//
// Kernels panic with a *ShapeError when operand dimensions disagree: that is
// a programming error inside the engine, not a condition callers recover
// from. Code that validates user-supplied shapes should use CheckSameShape or
// CheckLen, which return the same error as a value.
package linalg

import (
	"strconv"

	"github.com/pkg/errors"
)

// Shape is the dimensions of a matrix.
type Shape struct {
	Rows int
	Cols int
}

// NumElements returns Rows*Cols.
func (s Shape) NumElements() int {
	return s.Rows * s.Cols
}

// Validate checks that both dimensions are positive.
func (s Shape) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return errors.Errorf("invalid shape %v: dimensions must be > 0", s)
	}
	return nil
}

// Equal reports whether two shapes have the same dimensions.
func (s Shape) Equal(other Shape) bool {
	return s.Rows == other.Rows && s.Cols == other.Cols
}

// String formats the shape as RxC.
func (s Shape) String() string {
	return strconv.Itoa(s.Rows) + "x" + strconv.Itoa(s.Cols)
}
