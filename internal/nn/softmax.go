package nn

import (
	"math"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
)

// Softmax normalizes its single input into a probability distribution.
//
// Forward, with m = max_j x_j:
//
//	y_i = exp(x_i - m) / (Σ_j exp(x_j - m) + ε)
//
// Subtracting m keeps exp from overflowing; ε (possibly 0) keeps the
// denominator away from zero.
//
// Backward uses the full Jacobian ∂y_i/∂x_k = y_i(δ_ik - y_k):
//
//	dL/dx_i = y_i · (dL/dy_i - Σ_k dL/dy_k · y_k)
type Softmax struct {
	base
	epsilon float64
}

// NewSoftmax creates a Softmax layer of the given size.
func NewSoftmax(name string, size int, epsilon float64) (*Softmax, error) {
	if err := validateSize(KindSoftmax, name, size); err != nil {
		return nil, err
	}
	if epsilon < 0 || math.IsNaN(epsilon) || math.IsInf(epsilon, 0) {
		return nil, errors.Errorf("SOFTMAX layer %q: epsilon must be a finite value >= 0, got %g", name, epsilon)
	}
	return &Softmax{base: newBase(name, size, []int{size}), epsilon: epsilon}, nil
}

// Kind implements Layer.
func (l *Softmax) Kind() Kind { return KindSoftmax }

// Epsilon returns the denominator stabilizer.
func (l *Softmax) Epsilon() float64 { return l.epsilon }

// Forward computes the stabilized softmax.
func (l *Softmax) Forward() {
	x := l.inputs[0]
	m := x[0]
	for _, v := range x[1:] {
		m = math.Max(m, v)
	}

	var sum float64
	for i, v := range x {
		e := math.Exp(v - m)
		l.output[i] = e
		sum += e
	}

	denom := sum + l.epsilon
	for i := range l.output {
		l.output[i] /= denom
	}
}

// Backward applies the softmax Jacobian to dL/dY.
func (l *Softmax) Backward() {
	y := l.output
	weighted := linalg.Dot(l.dLdY, y)
	dx := l.dLdX[0]
	for i, yi := range y {
		dx[i] = yi * (l.dLdY[i] - weighted)
	}
}
