package nn

import (
	"github.com/pkg/errors"
)

// Concatenate joins predecessor outputs into one vector, in predecessor order.
//
// Backward splits dL/dY into contiguous segments, one per input slot.
type Concatenate struct {
	base
}

// NewConcatenate creates a Concatenate layer for inputs of the given sizes.
// The output size is the sum of inputSizes.
func NewConcatenate(name string, inputSizes []int) (*Concatenate, error) {
	if len(inputSizes) == 0 {
		return nil, errors.Errorf("CONCAT layer %q: needs at least one input", name)
	}
	total := 0
	for i, n := range inputSizes {
		if n <= 0 {
			return nil, errors.Errorf("CONCAT layer %q: input %d has size %d", name, i, n)
		}
		total += n
	}
	return &Concatenate{base: newBase(name, total, inputSizes)}, nil
}

// Kind implements Layer.
func (l *Concatenate) Kind() Kind { return KindConcat }

// Forward copies every input slot into its segment of the output.
func (l *Concatenate) Forward() {
	offset := 0
	for _, in := range l.inputs {
		offset += copy(l.output[offset:], in)
	}
}

// Backward copies each segment of dL/dY into the matching input slot.
func (l *Concatenate) Backward() {
	offset := 0
	for _, dx := range l.dLdX {
		offset += copy(dx, l.dLdY[offset:offset+len(dx)])
	}
}
