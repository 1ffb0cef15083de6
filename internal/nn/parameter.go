package nn

import (
	"github.com/born-ml/dagnet/internal/linalg"
)

// Parameter represents a trainable parameter in a layer.
//
// A Parameter pairs a value matrix with a gradient matrix of the same shape.
// Both are allocated once, when the owning layer is constructed; the value is
// mutated only by the optimizer-application step of training, and the
// gradient is overwritten by every backward pass.
//
// Example:
//
//	weight := nn.NewParameter("weight", linalg.NewMatrix(16, 1))
//
//	w := weight.Value()
//	g := weight.Grad()  // same shape as w
type Parameter struct {
	name  string         // Parameter name (e.g., "weight", "bias")
	value *linalg.Matrix // The parameter values
	grad  *linalg.Matrix // Gradient from the most recent backward pass
}

// NewParameter creates a new trainable parameter with a zeroed gradient.
//
// Parameters:
//   - name: Descriptive name for this parameter (e.g., "weight")
//   - value: The initialized parameter matrix
//
// Returns a new Parameter.
func NewParameter(name string, value *linalg.Matrix) *Parameter {
	return &Parameter{
		name:  name,
		value: value,
		grad:  linalg.ZerosLike(value),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter matrix.
func (p *Parameter) Value() *linalg.Matrix {
	return p.value
}

// Grad returns the gradient matrix.
func (p *Parameter) Grad() *linalg.Matrix {
	return p.grad
}

// Shape returns the shape shared by the value and the gradient.
func (p *Parameter) Shape() linalg.Shape {
	return p.value.Shape()
}

// ZeroGrad clears the gradient matrix.
func (p *Parameter) ZeroGrad() {
	p.grad.Zero()
}
