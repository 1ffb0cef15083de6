package nn

import (
	"github.com/pkg/errors"
)

// Builder assembles a Network layer by layer.
//
// Predecessors are referenced by name and resolved in Build, so a layer may
// name a predecessor declared after it. The first error encountered is kept
// and returned by Build; later calls are ignored.
//
// Example:
//
//	b := nn.NewBuilder(42)
//	b.Input("x", 1)
//	b.Dense("h", 16, nn.Tanh{}, "x")
//	b.Dense("y", 1, nn.Linear{}, "h")
//	net, err := b.Build("y")
type Builder struct {
	seed  int64
	descs []Descriptor
	from  [][]string
	sizes map[string]int
	err   error
}

// NewBuilder creates an empty Builder. seed drives parameter initialization.
func NewBuilder(seed int64) *Builder {
	return &Builder{seed: seed, sizes: make(map[string]int)}
}

// Err returns the first error recorded so far.
func (b *Builder) Err() error {
	return b.err
}

// Input declares an Input layer of the given size.
func (b *Builder) Input(name string, size int) *Builder {
	return b.add(Descriptor{Name: name, Kind: KindInput, Size: size}, nil)
}

// Dense declares a fully connected layer reading from one predecessor.
func (b *Builder) Dense(name string, size int, activation Activation, from string) *Builder {
	if b.err == nil && activation == nil {
		b.err = errors.Errorf("DENSE layer %q: activation is nil", name)
	}
	d := Descriptor{Name: name, Kind: KindDense, Size: size, ActivationFunc: activation}
	if activation != nil {
		d.Activation = activation.Name()
	}
	return b.add(d, []string{from})
}

// Add declares an elementwise sum of predecessors of the given size.
func (b *Builder) Add(name string, size int, from ...string) *Builder {
	return b.add(Descriptor{Name: name, Kind: KindAdd, Size: size}, from)
}

// Concat declares a concatenation of predecessors. Its size is the sum of
// the predecessor sizes, so every predecessor must already be declared.
func (b *Builder) Concat(name string, from ...string) *Builder {
	size := 0
	for _, f := range from {
		n, ok := b.sizes[f]
		if !ok {
			if b.err == nil {
				b.err = errors.Wrapf(ErrUnknownLayer, "CONCAT layer %q: input %q must be declared first", name, f)
			}
			return b
		}
		size += n
	}
	return b.add(Descriptor{Name: name, Kind: KindConcat, Size: size}, from)
}

// Softmax declares a softmax of the given size over one predecessor.
func (b *Builder) Softmax(name string, size int, epsilon float64, from string) *Builder {
	return b.add(Descriptor{Name: name, Kind: KindSoftmax, Size: size, Epsilon: epsilon}, []string{from})
}

func (b *Builder) add(d Descriptor, from []string) *Builder {
	if b.err != nil {
		return b
	}
	if !ValidName(d.Name) {
		b.err = errors.Wrapf(ErrInvalidName, "%q", d.Name)
		return b
	}
	if _, dup := b.sizes[d.Name]; dup {
		b.err = errors.Wrapf(ErrDuplicateName, "%q", d.Name)
		return b
	}
	b.sizes[d.Name] = d.Size
	b.descs = append(b.descs, d)
	b.from = append(b.from, from)
	return b
}

// Build resolves predecessor names and constructs the network with the
// named layers as outputs, in the given order.
func (b *Builder) Build(outputs ...string) (*Network, error) {
	if b.err != nil {
		return nil, b.err
	}

	index := make(map[string]int, len(b.descs))
	for i, d := range b.descs {
		index[d.Name] = i
	}
	lookup := func(name, context string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, errors.Wrapf(ErrUnknownLayer, "%s: %q", context, name)
		}
		return i, nil
	}

	descs := make([]Descriptor, len(b.descs))
	for i, d := range b.descs {
		d.Inputs = make([]int, len(b.from[i]))
		for slot, name := range b.from[i] {
			p, err := lookup(name, "input of layer "+d.Name)
			if err != nil {
				return nil, err
			}
			d.Inputs[slot] = p
		}
		descs[i] = d
	}

	outs := make([]int, len(outputs))
	for k, name := range outputs {
		o, err := lookup(name, "output")
		if err != nil {
			return nil, err
		}
		outs[k] = o
	}
	return FromDescriptors(descs, outs, b.seed)
}
