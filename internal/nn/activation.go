package nn

import (
	"math"
	"reflect"
	"sync"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
)

// Activation is a scalar differentiable function applied elementwise by
// Dense layers.
//
// Implementations must be pure: F and FPrime depend only on x.
type Activation interface {
	// Name returns the registry name used in model files (e.g. "TANH").
	Name() string

	// F evaluates the function at x.
	F(x float64) float64

	// FPrime evaluates the derivative dF/dx at x.
	FPrime(x float64) float64
}

// Activation registry names.
const (
	ActivationLinear    = "LINEAR"
	ActivationSigmoid   = "SIGMOID"
	ActivationTanh      = "TANH"
	ActivationReLU      = "RELU"
	ActivationLeakyReLU = "LEAKY_RELU"
	ActivationSoftplus  = "SOFTPLUS"
)

// LeakyReLUSlope is the slope LeakyReLU uses for negative inputs.
const LeakyReLUSlope = 0.01

var (
	registryMu sync.RWMutex
	registry   = map[string]Activation{}
)

func init() {
	for _, a := range Activations() {
		registry[a.Name()] = a
	}
}

// RegisterActivation makes a available to ActivationByName and therefore
// to model files that reference it by name. Built-in names cannot be
// replaced, and a name can only be registered once.
func RegisterActivation(a Activation) error {
	if a == nil {
		return errors.New("register activation: nil activation")
	}
	name := a.Name()
	if !ValidName(name) {
		return errors.Wrapf(ErrInvalidName, "activation %q", name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		return errors.Wrapf(ErrDuplicateName, "activation %q", name)
	}
	registry[name] = a
	return nil
}

// ActivationByName returns the activation registered under name.
func ActivationByName(name string) (Activation, error) {
	registryMu.RLock()
	a, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown activation %q", name)
	}
	return a, nil
}

// checkRegistered fails unless a is what ActivationByName(a.Name())
// returns, so a model file naming it loads the same function back.
func checkRegistered(a Activation) error {
	registered, err := ActivationByName(a.Name())
	if err != nil {
		return err
	}
	if reflect.TypeOf(registered) != reflect.TypeOf(a) {
		return errors.Errorf("activation %q: %T is not the registered %T", a.Name(), a, registered)
	}
	return nil
}

// Activations returns one instance of every built-in activation.
func Activations() []Activation {
	return []Activation{Linear{}, Sigmoid{}, Tanh{}, ReLU{}, LeakyReLU{}, Softplus{}}
}

// ApplyActivation computes dst[i] = a.F(src[i]).
func ApplyActivation(a Activation, dst, src []float64) {
	linalg.Apply(dst, src, a.F)
}

// ApplyDerivative computes dst[i] = a.FPrime(src[i]).
func ApplyDerivative(a Activation, dst, src []float64) {
	linalg.Apply(dst, src, a.FPrime)
}

// Linear is the identity activation: f(x) = x.
type Linear struct{}

// Name implements Activation.
func (Linear) Name() string { return ActivationLinear }

// F implements Activation.
func (Linear) F(x float64) float64 { return x }

// FPrime implements Activation.
func (Linear) FPrime(float64) float64 { return 1 }

// Sigmoid is the logistic function.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
//
// Sigmoid squashes values to the range (0, 1).
type Sigmoid struct{}

// Name implements Activation.
func (Sigmoid) Name() string { return ActivationSigmoid }

// F implements Activation.
func (Sigmoid) F(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	// Same value, but exp cannot overflow for large negative x.
	e := math.Exp(x)
	return e / (1 + e)
}

// FPrime implements Activation: σ'(x) = σ(x)(1 - σ(x)).
func (s Sigmoid) FPrime(x float64) float64 {
	y := s.F(x)
	return y * (1 - y)
}

// Tanh is the hyperbolic tangent activation.
//
// Tanh squashes values to the range (-1, 1).
type Tanh struct{}

// Name implements Activation.
func (Tanh) Name() string { return ActivationTanh }

// F implements Activation.
func (Tanh) F(x float64) float64 { return math.Tanh(x) }

// FPrime implements Activation: tanh'(x) = 1 - tanh²(x).
func (Tanh) FPrime(x float64) float64 {
	y := math.Tanh(x)
	return 1 - y*y
}

// ReLU is the Rectified Linear Unit: f(x) = max(0, x).
//
// The derivative at 0 is taken to be 0.
type ReLU struct{}

// Name implements Activation.
func (ReLU) Name() string { return ActivationReLU }

// F implements Activation.
func (ReLU) F(x float64) float64 { return math.Max(0, x) }

// FPrime implements Activation.
func (ReLU) FPrime(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// LeakyReLU is ReLU with slope LeakyReLUSlope for negative inputs.
type LeakyReLU struct{}

// Name implements Activation.
func (LeakyReLU) Name() string { return ActivationLeakyReLU }

// F implements Activation.
func (LeakyReLU) F(x float64) float64 {
	if x > 0 {
		return x
	}
	return LeakyReLUSlope * x
}

// FPrime implements Activation.
func (LeakyReLU) FPrime(x float64) float64 {
	if x > 0 {
		return 1
	}
	return LeakyReLUSlope
}

// Softplus is the smooth ReLU approximation: f(x) = log(1 + exp(x)).
type Softplus struct{}

// Name implements Activation.
func (Softplus) Name() string { return ActivationSoftplus }

// F implements Activation.
func (Softplus) F(x float64) float64 {
	// log1p(exp(-|x|)) + max(x, 0) avoids overflow for large x.
	return math.Log1p(math.Exp(-math.Abs(x))) + math.Max(x, 0)
}

// FPrime implements Activation: the derivative of softplus is the sigmoid.
func (Softplus) FPrime(x float64) float64 {
	return Sigmoid{}.F(x)
}
