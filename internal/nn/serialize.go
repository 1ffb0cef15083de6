package nn

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
	"github.com/born-ml/dagnet/internal/serialization"
)

// Format selects the on-disk encoding of a network.
type Format int

// Supported formats.
const (
	FormatBinary Format = iota // Versioned .dag binary with checksum
	FormatText                 // Line-oriented text grammar
)

// optimizerPrefix namespaces optimizer state tensors in checkpoints.
const optimizerPrefix = "optimizer."

// ToModel converts n to its serializable form.
// Parameters are named "<layer>.<param>", e.g. "h.weight".
func ToModel(n *Network) *serialization.Model {
	m := &serialization.Model{
		Layers:  make([]serialization.LayerMeta, len(n.layers)),
		Outputs: make([]string, len(n.outputs)),
	}
	for i, d := range n.Descriptors() {
		meta := serialization.LayerMeta{
			Name:       d.Name,
			Kind:       d.Kind.String(),
			Size:       d.Size,
			Activation: d.Activation,
			Epsilon:    d.Epsilon,
		}
		for _, p := range d.Inputs {
			meta.Inputs = append(meta.Inputs, n.layers[p].Name())
		}
		m.Layers[i] = meta

		for _, p := range n.layers[i].Parameters() {
			m.Tensors = append(m.Tensors, matrixTensor(d.Name+"."+p.Name(), p.Value()))
		}
	}
	for k, o := range n.outputs {
		m.Outputs[k] = n.layers[o].Name()
	}
	return m
}

func checkActivations(n *Network) error {
	for _, l := range n.layers {
		if d, ok := l.(*Dense); ok {
			if err := checkRegistered(d.Activation()); err != nil {
				return errors.Wrapf(err, "DENSE layer %q", d.Name())
			}
		}
	}
	return nil
}

// FromModel rebuilds a network from its serializable form.
//
// Every parameter must be present with the right shape. Tensors under the
// "optimizer." prefix are ignored; any other unknown tensor is an error.
func FromModel(m *serialization.Model) (*Network, error) {
	index := make(map[string]int, len(m.Layers))
	for i, l := range m.Layers {
		if _, dup := index[l.Name]; dup {
			return nil, errors.Wrapf(ErrDuplicateName, "%q", l.Name)
		}
		index[l.Name] = i
	}

	descs := make([]Descriptor, len(m.Layers))
	for i, l := range m.Layers {
		kind, err := ParseKind(l.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %q", l.Name)
		}
		d := Descriptor{
			Name:       l.Name,
			Kind:       kind,
			Size:       l.Size,
			Activation: l.Activation,
			Epsilon:    l.Epsilon,
			Inputs:     make([]int, len(l.Inputs)),
		}
		for slot, name := range l.Inputs {
			p, ok := index[name]
			if !ok {
				return nil, errors.Wrapf(ErrUnknownLayer, "input %q of layer %q", name, l.Name)
			}
			d.Inputs[slot] = p
		}
		descs[i] = d
	}

	outputs := make([]int, len(m.Outputs))
	for k, name := range m.Outputs {
		o, ok := index[name]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownLayer, "output %q", name)
		}
		outputs[k] = o
	}

	n, err := FromDescriptors(descs, outputs, 0)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool, len(m.Tensors))
	for _, l := range n.layers {
		for _, p := range l.Parameters() {
			name := l.Name() + "." + p.Name()
			t, ok := m.Tensor(name)
			if !ok {
				return nil, errors.Errorf("missing parameter %q", name)
			}
			if t.Rows != p.Value().Rows() || t.Cols != p.Value().Cols() {
				return nil, errors.Wrapf(ErrShapeMismatch, "parameter %q: file has [%d %d], layer wants %s",
					name, t.Rows, t.Cols, p.Shape())
			}
			copy(p.Value().Data(), t.Data)
			used[name] = true
		}
	}
	for _, t := range m.Tensors {
		if !used[t.Name] && !strings.HasPrefix(t.Name, optimizerPrefix) {
			return nil, errors.Errorf("unexpected tensor %q", t.Name)
		}
	}
	return n, nil
}

// WriteModel encodes n to w in the given format.
//
// Every Dense activation must be registered under its name, so that reading
// the file back yields the same function.
func WriteModel(w io.Writer, n *Network, format Format) error {
	if err := checkActivations(n); err != nil {
		return err
	}
	switch format {
	case FormatBinary:
		return serialization.Write(w, ToModel(n))
	case FormatText:
		return serialization.WriteText(w, ToModel(n))
	default:
		return errors.Errorf("unknown format %d", format)
	}
}

// ReadModel decodes a network from r, detecting the format from its first bytes.
func ReadModel(r io.Reader) (*Network, error) {
	m, err := readModel(r)
	if err != nil {
		return nil, err
	}
	return FromModel(m)
}

func readModel(r io.Reader) (*serialization.Model, error) {
	br := bufio.NewReader(r)
	prefix, _ := br.Peek(len(serialization.MagicBytes))
	if serialization.IsBinary(prefix) {
		m, _, err := serialization.Read(br)
		return m, err
	}
	return serialization.ReadText(br)
}

// Save writes n to path in the binary format.
func Save(n *Network, path string) error {
	return saveFile(n, path, FormatBinary)
}

// SaveText writes n to path in the text format.
func SaveText(n *Network, path string) error {
	return saveFile(n, path, FormatText)
}

func saveFile(n *Network, path string, format Format) (err error) {
	if err := checkActivations(n); err != nil {
		return err
	}
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "failed to close file")
		}
	}()
	return WriteModel(file, n, format)
}

// Load reads a network saved with Save or SaveText.
func Load(path string) (*Network, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	n, err := ReadModel(file)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return n, nil
}

func matrixTensor(name string, m *linalg.Matrix) serialization.Tensor {
	return serialization.Tensor{
		Name: name,
		Rows: m.Rows(),
		Cols: m.Cols(),
		Data: append([]float64(nil), m.Data()...),
	}
}
