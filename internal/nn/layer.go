package nn

import (
	"github.com/pkg/errors"
)

// Kind identifies one of the closed set of layer variants.
type Kind int

// Layer kinds.
const (
	KindInput Kind = iota
	KindDense
	KindAdd
	KindConcat
	KindSoftmax
)

var kindNames = [...]string{
	KindInput:   "INPUT",
	KindDense:   "DENSE",
	KindAdd:     "ADD",
	KindConcat:  "CONCAT",
	KindSoftmax: "SOFTMAX",
}

// String returns the descriptor token for k (e.g. "DENSE").
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// ParseKind maps a descriptor token back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, errors.Errorf("unknown layer kind %q", s)
}

// Layer is a node of the computational graph.
//
// The set of implementations is closed: Input, Dense, Add, Concatenate and
// Softmax. Layers own their scratch buffers; the Network owns the layers and
// the edges between them, and moves data along those edges:
//
//   - before Forward, the Network copies each predecessor's output into the
//     matching input slot;
//   - before Backward, the Network sets OutputGrad to the sum of every
//     successor's InputGrad for the slots this layer feeds.
//
// Forward and Backward therefore never look beyond their own buffers.
type Layer interface {
	// Name returns the unique layer name within its network.
	Name() string

	// Kind returns the layer variant.
	Kind() Kind

	// Size returns the length of the output vector.
	Size() int

	// InputSizes returns the length of each input slot, in predecessor order.
	InputSizes() []int

	// Input returns the scratch vector for input slot.
	Input(slot int) []float64

	// Output returns the output vector computed by the last Forward.
	Output() []float64

	// OutputGrad returns dL/dY, the gradient with respect to the output.
	OutputGrad() []float64

	// InputGrad returns dL/dX for input slot, computed by the last Backward.
	InputGrad(slot int) []float64

	// Parameters returns the trainable parameters in a fixed order.
	// Returns nil for layers without parameters.
	Parameters() []*Parameter

	// Forward computes Output from the input slots.
	Forward()

	// Backward computes every InputGrad from OutputGrad and, for parametric
	// layers, overwrites each parameter's gradient.
	Backward()

	// Reset zeroes every scratch buffer. Parameters are untouched.
	Reset()

	core() *base
}

// base holds the buffers shared by every layer kind.
type base struct {
	name   string
	size   int
	inputs [][]float64 // One slot per predecessor
	output []float64
	dLdX   [][]float64 // Parallel to inputs
	dLdY   []float64   // Parallel to output
}

func newBase(name string, size int, inputSizes []int) base {
	b := base{
		name:   name,
		size:   size,
		inputs: make([][]float64, len(inputSizes)),
		output: make([]float64, size),
		dLdX:   make([][]float64, len(inputSizes)),
		dLdY:   make([]float64, size),
	}
	for i, n := range inputSizes {
		b.inputs[i] = make([]float64, n)
		b.dLdX[i] = make([]float64, n)
	}
	return b
}

func (b *base) core() *base { return b }

// Name implements Layer.
func (b *base) Name() string { return b.name }

// Size implements Layer.
func (b *base) Size() int { return b.size }

// InputSizes implements Layer.
func (b *base) InputSizes() []int {
	sizes := make([]int, len(b.inputs))
	for i, in := range b.inputs {
		sizes[i] = len(in)
	}
	return sizes
}

// Input implements Layer.
func (b *base) Input(slot int) []float64 { return b.inputs[slot] }

// Output implements Layer.
func (b *base) Output() []float64 { return b.output }

// OutputGrad implements Layer.
func (b *base) OutputGrad() []float64 { return b.dLdY }

// InputGrad implements Layer.
func (b *base) InputGrad(slot int) []float64 { return b.dLdX[slot] }

// Parameters implements Layer for layers without parameters.
func (b *base) Parameters() []*Parameter { return nil }

// Reset implements Layer.
func (b *base) Reset() {
	for i := range b.inputs {
		clear(b.inputs[i])
		clear(b.dLdX[i])
	}
	clear(b.output)
	clear(b.dLdY)
}

func validateSize(kind Kind, name string, size int) error {
	if size <= 0 {
		return errors.Errorf("%s layer %q: size must be > 0, got %d", kind, name, size)
	}
	return nil
}
