package nn

// Input is the entry point of a network.
//
// It passes its single input slot through unchanged. Backward is a no-op,
// but the Network still fills OutputGrad, which makes the gradient of the
// loss with respect to the network input observable.
type Input struct {
	base
}

// NewInput creates an Input layer of the given size.
func NewInput(name string, size int) (*Input, error) {
	if err := validateSize(KindInput, name, size); err != nil {
		return nil, err
	}
	return &Input{base: newBase(name, size, []int{size})}, nil
}

// Kind implements Layer.
func (l *Input) Kind() Kind { return KindInput }

// Forward copies the input vector to the output.
func (l *Input) Forward() {
	copy(l.output, l.inputs[0])
}

// Backward does nothing: inputs have no parameters and no predecessors.
func (l *Input) Backward() {}
