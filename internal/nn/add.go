package nn

import (
	"github.com/pkg/errors"
)

// Add sums N equal-length predecessor outputs elementwise.
//
// The Jacobian with respect to every input is the identity, so Backward
// copies dL/dY into each input slot. Fan-out of the gradient to the
// predecessors happens in the Network, which sums per-slot contributions.
type Add struct {
	base
}

// NewAdd creates an Add layer merging numInputs vectors of the given size.
func NewAdd(name string, size, numInputs int) (*Add, error) {
	if err := validateSize(KindAdd, name, size); err != nil {
		return nil, err
	}
	if numInputs < 1 {
		return nil, errors.Errorf("ADD layer %q: needs at least one input, got %d", name, numInputs)
	}
	sizes := make([]int, numInputs)
	for i := range sizes {
		sizes[i] = size
	}
	return &Add{base: newBase(name, size, sizes)}, nil
}

// Kind implements Layer.
func (l *Add) Kind() Kind { return KindAdd }

// Forward computes the elementwise sum of all inputs.
func (l *Add) Forward() {
	copy(l.output, l.inputs[0])
	for _, in := range l.inputs[1:] {
		for i, v := range in {
			l.output[i] += v
		}
	}
}

// Backward routes dL/dY unchanged to every input slot.
func (l *Add) Backward() {
	for _, dx := range l.dLdX {
		copy(dx, l.dLdY)
	}
}
