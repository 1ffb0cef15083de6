package nn

import (
	"math/rand"
	"regexp"

	"github.com/pkg/errors"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidName reports whether name can be used as a layer name.
//
// Names start with a letter or underscore and continue with letters,
// digits, underscores or dashes, so they survive the text format unquoted.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Descriptor is the serializable description of one layer.
//
// Inputs holds predecessor indices into the descriptor list, in slot order.
// Activation and ActivationFunc are only meaningful for DENSE, Epsilon only
// for SOFTMAX. A non-nil ActivationFunc is used as is; otherwise Activation
// is looked up with ActivationByName.
type Descriptor struct {
	Name           string
	Kind           Kind
	Size           int
	Activation     string
	ActivationFunc Activation
	Epsilon        float64
	Inputs         []int
}

// newLayer constructs the layer described by d.
// inputSizes are the declared sizes of d's predecessors, in slot order.
func newLayer(d Descriptor, inputSizes []int, rng *rand.Rand) (Layer, error) {
	arity := func(want int) error {
		if len(inputSizes) != want {
			return errors.Errorf("%s layer %q: needs exactly %d input(s), got %d", d.Kind, d.Name, want, len(inputSizes))
		}
		return nil
	}
	sameSize := func() error {
		for i, n := range inputSizes {
			if n != d.Size {
				return errors.Wrapf(ErrShapeMismatch, "%s layer %q: input %d has size %d, want %d", d.Kind, d.Name, i, n, d.Size)
			}
		}
		return nil
	}

	switch d.Kind {
	case KindInput:
		if len(inputSizes) != 0 {
			return nil, errors.Errorf("INPUT layer %q: must not have predecessors", d.Name)
		}
		return NewInput(d.Name, d.Size)

	case KindDense:
		if err := arity(1); err != nil {
			return nil, err
		}
		act, err := d.activation()
		if err != nil {
			return nil, errors.Wrapf(err, "DENSE layer %q", d.Name)
		}
		return NewDense(d.Name, d.Size, inputSizes[0], act, rng)

	case KindAdd:
		if err := sameSize(); err != nil {
			return nil, err
		}
		return NewAdd(d.Name, d.Size, len(inputSizes))

	case KindConcat:
		l, err := NewConcatenate(d.Name, inputSizes)
		if err != nil {
			return nil, err
		}
		if l.Size() != d.Size {
			return nil, errors.Wrapf(ErrShapeMismatch, "CONCAT layer %q: declared size %d, inputs sum to %d", d.Name, d.Size, l.Size())
		}
		return l, nil

	case KindSoftmax:
		if err := arity(1); err != nil {
			return nil, err
		}
		if err := sameSize(); err != nil {
			return nil, err
		}
		return NewSoftmax(d.Name, d.Size, d.Epsilon)

	default:
		return nil, errors.Errorf("layer %q: unknown kind %d", d.Name, d.Kind)
	}
}

func (d Descriptor) activation() (Activation, error) {
	if d.ActivationFunc == nil {
		return ActivationByName(d.Activation)
	}
	if d.Activation != "" && d.Activation != d.ActivationFunc.Name() {
		return nil, errors.Errorf("activation name %q does not match %q", d.Activation, d.ActivationFunc.Name())
	}
	return d.ActivationFunc, nil
}

// describe returns the descriptor of l with the given predecessor indices.
func describe(l Layer, inputs []int) Descriptor {
	d := Descriptor{
		Name:   l.Name(),
		Kind:   l.Kind(),
		Size:   l.Size(),
		Inputs: append([]int(nil), inputs...),
	}
	switch v := l.(type) {
	case *Dense:
		d.Activation = v.Activation().Name()
		d.ActivationFunc = v.Activation()
	case *Softmax:
		d.Epsilon = v.Epsilon()
	}
	return d
}
