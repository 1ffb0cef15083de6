package nn

import (
	"math/rand"
	"slices"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
)

// edge is a connection into input slot `slot` of layer `to`.
type edge struct {
	to   int
	slot int
}

// Network is a directed acyclic graph of layers.
//
// Layers live in an arena indexed by construction order; edges are
// predecessor/successor index lists. The topological order and the set of
// layers reachable from the inputs are computed once when the network is
// built and reused by every pass.
//
// A Network is not safe for concurrent use.
type Network struct {
	layers  []Layer
	preds   [][]int  // preds[i][slot] = predecessor feeding slot of layer i
	succs   [][]edge // succs[i] = every slot that reads layer i's output
	index   map[string]int
	inputs  []int
	outputs []int
	order   []int
	reach   []int // Discovered from the inputs, in discovery order

	inputPos  []int // Position in inputs, or -1
	outputPos []int // Position in outputs, or -1
	params    []*Parameter
}

// FromDescriptors builds a network from layer descriptors.
//
// outputs are indices into descs. Dense parameters are initialized from a
// random source seeded with seed, in descriptor order, so the same
// descriptors and seed always produce the same initial parameters.
//
// The graph is validated before it is returned: every layer must be
// reachable from an Input layer, the graph must be acyclic, and every layer
// must contribute to an output, checked in that order. Violations are
// reported as *GraphError.
func FromDescriptors(descs []Descriptor, outputs []int, seed int64) (*Network, error) {
	n := &Network{
		layers:    make([]Layer, len(descs)),
		preds:     make([][]int, len(descs)),
		succs:     make([][]edge, len(descs)),
		index:     make(map[string]int, len(descs)),
		inputPos:  make([]int, len(descs)),
		outputPos: make([]int, len(descs)),
	}

	if err := n.link(descs, outputs); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	for i, d := range descs {
		sizes := make([]int, len(d.Inputs))
		for slot, p := range d.Inputs {
			sizes[slot] = descs[p].Size
		}
		l, err := newLayer(d, sizes, rng)
		if err != nil {
			return nil, err
		}
		n.layers[i] = l
		n.params = append(n.params, l.Parameters()...)
	}

	if err := n.discover(); err != nil {
		return nil, err
	}
	if err := n.sort(); err != nil {
		return nil, err
	}
	if err := n.checkUsed(); err != nil {
		return nil, err
	}
	return n, nil
}

// link validates names and indices and records the edges.
func (n *Network) link(descs []Descriptor, outputs []int) error {
	if len(descs) == 0 {
		return &GraphError{Reason: ReasonNoInputs, Details: "network has no layers"}
	}

	var missing []string
	for i, d := range descs {
		if !ValidName(d.Name) {
			return errors.Wrapf(ErrInvalidName, "layer %d: %q", i, d.Name)
		}
		if _, dup := n.index[d.Name]; dup {
			return errors.Wrapf(ErrDuplicateName, "%q", d.Name)
		}
		n.index[d.Name] = i
		n.inputPos[i] = -1
		n.outputPos[i] = -1

		for slot, p := range d.Inputs {
			if p < 0 || p >= len(descs) {
				return errors.Wrapf(ErrUnknownLayer, "layer %q: input %d refers to index %d", d.Name, slot, p)
			}
			n.succs[p] = append(n.succs[p], edge{to: i, slot: slot})
		}
		n.preds[i] = append([]int(nil), d.Inputs...)

		if d.Kind == KindInput {
			n.inputPos[i] = len(n.inputs)
			n.inputs = append(n.inputs, i)
		} else if len(d.Inputs) == 0 {
			missing = append(missing, d.Name)
		}
	}

	if len(missing) > 0 {
		return &GraphError{Reason: ReasonMissingInput, Layers: missing, Details: "non-input layers need at least one predecessor"}
	}
	if len(n.inputs) == 0 {
		return &GraphError{Reason: ReasonNoInputs, Details: "network has no INPUT layer"}
	}
	if len(outputs) == 0 {
		return &GraphError{Reason: ReasonNoOutputs, Details: "network has no outputs"}
	}
	for _, o := range outputs {
		if o < 0 || o >= len(descs) {
			return errors.Wrapf(ErrUnknownLayer, "output refers to index %d", o)
		}
		if n.outputPos[o] >= 0 {
			return errors.Errorf("layer %q listed as output twice", descs[o].Name)
		}
		n.outputPos[o] = len(n.outputs)
		n.outputs = append(n.outputs, o)
	}
	return nil
}

// sort computes the topological order with Kahn's algorithm.
// Among ready layers the lowest index goes first.
func (n *Network) sort() error {
	indegree := make([]int, len(n.layers))
	var ready []int
	for i, p := range n.preds {
		indegree[i] = len(p)
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	n.order = make([]int, 0, len(n.layers))
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		n.order = append(n.order, i)
		for _, e := range n.succs[i] {
			indegree[e.to]--
			if indegree[e.to] == 0 {
				pos, _ := slices.BinarySearch(ready, e.to)
				ready = slices.Insert(ready, pos, e.to)
			}
		}
	}

	if len(n.order) == len(n.layers) {
		return nil
	}
	var stuck []string
	for i, d := range indegree {
		if d > 0 {
			stuck = append(stuck, n.layers[i].Name())
		}
	}
	return &GraphError{Reason: ReasonCycle, Layers: stuck, Details: "layers on or downstream of a cycle cannot be ordered"}
}

// discover runs one depth-first traversal from the inputs along successor
// edges and rejects layers it never reaches.
func (n *Network) discover() error {
	seen := make([]bool, len(n.layers))
	n.reach = n.reach[:0]

	var visit func(i int)
	visit = func(i int) {
		if seen[i] {
			return
		}
		seen[i] = true
		n.reach = append(n.reach, i)
		for _, e := range n.succs[i] {
			visit(e.to)
		}
	}
	for _, i := range n.inputs {
		visit(i)
	}

	var lost []string
	for i, ok := range seen {
		if !ok {
			lost = append(lost, n.layers[i].Name())
		}
	}
	if len(lost) > 0 {
		return &GraphError{Reason: ReasonDisconnected, Layers: lost, Details: "not reachable from any INPUT layer"}
	}
	return nil
}

// checkUsed rejects layers whose output never reaches a network output.
func (n *Network) checkUsed() error {
	used := make([]bool, len(n.layers))
	for _, o := range n.outputs {
		used[o] = true
	}
	for k := len(n.order) - 1; k >= 0; k-- {
		i := n.order[k]
		if !used[i] {
			continue
		}
		for _, p := range n.preds[i] {
			used[p] = true
		}
	}

	var unused []string
	for i, ok := range used {
		if !ok {
			unused = append(unused, n.layers[i].Name())
		}
	}
	if len(unused) > 0 {
		return &GraphError{Reason: ReasonUnused, Layers: unused, Details: "output does not contribute to any network output"}
	}
	return nil
}

// Forward runs one forward pass.
//
// inputs are matched to the Input layers in index order. Every scratch
// buffer is reset first, then each layer runs exactly once in topological
// order after its input slots are filled from its predecessors.
func (n *Network) Forward(inputs ...[]float64) error {
	if len(inputs) != len(n.inputs) {
		return errors.Wrapf(ErrInputMismatch, "got %d input vectors, network has %d inputs", len(inputs), len(n.inputs))
	}
	for k, i := range n.inputs {
		if len(inputs[k]) != n.layers[i].Size() {
			return errors.Wrapf(ErrInputMismatch, "input %q: got length %d, want %d", n.layers[i].Name(), len(inputs[k]), n.layers[i].Size())
		}
	}

	n.Reset()
	for _, i := range n.order {
		l := n.layers[i]
		if pos := n.inputPos[i]; pos >= 0 {
			copy(l.Input(0), inputs[pos])
		}
		for slot, p := range n.preds[i] {
			copy(l.Input(slot), n.layers[p].Output())
		}
		l.Forward()
	}
	return nil
}

// Backward runs one backward pass after Forward.
//
// outputGrads are dL/dY for each network output, in output order. Each
// layer's OutputGrad is set to its external gradient, if any, plus the sum
// of every successor input slot it feeds; then the layer runs Backward.
// Parameter gradients are overwritten, not accumulated.
func (n *Network) Backward(outputGrads ...[]float64) error {
	if len(outputGrads) != len(n.outputs) {
		return errors.Wrapf(ErrOutputMismatch, "got %d gradient vectors, network has %d outputs", len(outputGrads), len(n.outputs))
	}
	for k, o := range n.outputs {
		if len(outputGrads[k]) != n.layers[o].Size() {
			return errors.Wrapf(ErrOutputMismatch, "output %q: got gradient length %d, want %d", n.layers[o].Name(), len(outputGrads[k]), n.layers[o].Size())
		}
	}

	for k := len(n.order) - 1; k >= 0; k-- {
		i := n.order[k]
		l := n.layers[i]
		dy := l.OutputGrad()
		clear(dy)
		if pos := n.outputPos[i]; pos >= 0 {
			copy(dy, outputGrads[pos])
		}
		for _, e := range n.succs[i] {
			linalg.AddVec(dy, n.layers[e.to].InputGrad(e.slot))
		}
		l.Backward()
	}
	return nil
}

// Predict runs Forward and returns copies of the output vectors.
// With fixed parameters repeated calls return bit-identical results.
func (n *Network) Predict(inputs ...[]float64) ([][]float64, error) {
	if err := n.Forward(inputs...); err != nil {
		return nil, err
	}
	out := make([][]float64, len(n.outputs))
	for k, o := range n.outputs {
		out[k] = slices.Clone(n.layers[o].Output())
	}
	return out, nil
}

// Parameters returns every trainable parameter, in layer index order.
func (n *Network) Parameters() []*Parameter {
	return n.params
}

// Gradients returns the gradient matrix of every parameter, parallel to Parameters.
func (n *Network) Gradients() []*linalg.Matrix {
	grads := make([]*linalg.Matrix, len(n.params))
	for i, p := range n.params {
		grads[i] = p.Grad()
	}
	return grads
}

// NumParameters returns the total number of trainable scalars.
func (n *Network) NumParameters() int {
	total := 0
	for _, p := range n.params {
		total += p.Value().Len()
	}
	return total
}

// ZeroGrad zeroes every parameter gradient.
func (n *Network) ZeroGrad() {
	for _, p := range n.params {
		p.ZeroGrad()
	}
}

// Reset zeroes the scratch buffers of every layer.
func (n *Network) Reset() {
	for _, l := range n.layers {
		l.Reset()
	}
}

// Layers returns all layers in index order.
func (n *Network) Layers() []Layer {
	return slices.Clone(n.layers)
}

// Layer returns the layer with the given name.
func (n *Network) Layer(name string) (Layer, bool) {
	i, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.layers[i], true
}

// Inputs returns the Input layers in the order Forward expects their vectors.
func (n *Network) Inputs() []Layer {
	return n.pick(n.inputs)
}

// Outputs returns the output layers in the order Predict returns them.
func (n *Network) Outputs() []Layer {
	return n.pick(n.outputs)
}

// OutputIndices returns the layer indices of the outputs.
func (n *Network) OutputIndices() []int {
	return slices.Clone(n.outputs)
}

// InputGradient returns dL/dx for the i-th network input after Backward.
func (n *Network) InputGradient(i int) []float64 {
	return n.layers[n.inputs[i]].OutputGrad()
}

// Order returns the layers in the cached topological order.
func (n *Network) Order() []Layer {
	return n.pick(n.order)
}

// Reachable returns the layers discovered from the inputs at build time.
func (n *Network) Reachable() []Layer {
	return n.pick(n.reach)
}

// Predecessors returns the names of the layers feeding name, in slot order.
func (n *Network) Predecessors(name string) []string {
	i, ok := n.index[name]
	if !ok {
		return nil
	}
	names := make([]string, len(n.preds[i]))
	for slot, p := range n.preds[i] {
		names[slot] = n.layers[p].Name()
	}
	return names
}

// Descriptors returns a descriptor per layer, in index order.
// FromDescriptors(n.Descriptors(), n.OutputIndices(), seed) rebuilds the
// same graph with freshly initialized parameters.
func (n *Network) Descriptors() []Descriptor {
	descs := make([]Descriptor, len(n.layers))
	for i, l := range n.layers {
		descs[i] = describe(l, n.preds[i])
	}
	return descs
}

func (n *Network) pick(idx []int) []Layer {
	out := make([]Layer, len(idx))
	for k, i := range idx {
		out[k] = n.layers[i]
	}
	return out
}
