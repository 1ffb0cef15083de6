package optim

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrStateShape is returned when gradients do not match the optimizer state.
var ErrStateShape = errors.New("optimizer state does not match gradients")

// ConfigError reports an invalid hyperparameter.
type ConfigError struct {
	Optimizer string
	Field     string
	Value     float64
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s config: %s = %g (%s)", e.Optimizer, e.Field, e.Value, e.Reason)
}

// checkPositive requires a finite v > 0.
func checkPositive(opt, field string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return &ConfigError{Optimizer: opt, Field: field, Value: v, Reason: "must be finite and > 0"}
	}
	return nil
}

// checkDecay requires 0 <= v < 1.
func checkDecay(opt, field string, v float64) error {
	if !(v >= 0 && v < 1) {
		return &ConfigError{Optimizer: opt, Field: field, Value: v, Reason: "must be in [0, 1)"}
	}
	return nil
}
