package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/dagnet/internal/linalg"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across layers.
//
// Parameters:
//   - fanIn: Number of input units
//   - fanOut: Number of output units
//   - rng: Source of randomness
//
// Returns a fanOut×fanIn matrix initialized with Xavier distribution.
func Xavier(fanIn, fanOut int, rng *rand.Rand) *linalg.Matrix {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return Uniform(fanOut, fanIn, bound, rng)
}

// FanInUniform initializes a fanOut×1 bias column with
// U(-1/sqrt(fan_in), 1/sqrt(fan_in)), the PyTorch Linear default.
func FanInUniform(fanIn, fanOut int, rng *rand.Rand) *linalg.Matrix {
	return Uniform(fanOut, 1, 1/math.Sqrt(float64(fanIn)), rng)
}

// Uniform creates a rows×cols matrix with values drawn from U(-bound, bound).
func Uniform(rows, cols int, bound float64, rng *rand.Rand) *linalg.Matrix {
	m := linalg.NewMatrix(rows, cols)
	data := m.Data()
	for i := range data {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		data[i] = (rng.Float64()*2.0 - 1.0) * bound
	}
	return m
}

// Zeros creates a rows×cols matrix filled with zeros.
func Zeros(rows, cols int) *linalg.Matrix {
	return linalg.NewMatrix(rows, cols)
}
