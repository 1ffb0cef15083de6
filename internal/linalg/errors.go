package linalg

import "fmt"

// ShapeError describes a dimension mismatch between kernel operands.
type ShapeError struct {
	Op       string // Kernel name, e.g. "MatVec"
	Expected string // Expected dimensions
	Got      string // Offending dimensions
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("linalg.%s: shape mismatch: expected %s, got %s", e.Op, e.Expected, e.Got)
}

// CheckSameShape returns a *ShapeError if a and b differ in shape.
func CheckSameShape(op string, a, b *Matrix) error {
	if !a.Shape().Equal(b.Shape()) {
		return &ShapeError{Op: op, Expected: a.Shape().String(), Got: b.Shape().String()}
	}
	return nil
}

// CheckLen returns a *ShapeError if v does not have length n.
func CheckLen(op string, v []float64, n int) error {
	if len(v) != n {
		return &ShapeError{Op: op, Expected: fmt.Sprintf("length %d", n), Got: fmt.Sprintf("length %d", len(v))}
	}
	return nil
}

func mustSameShape(op string, a, b *Matrix) {
	if err := CheckSameShape(op, a, b); err != nil {
		panic(err)
	}
}

func mustLen(op string, v []float64, n int) {
	if err := CheckLen(op, v, n); err != nil {
		panic(err)
	}
}
