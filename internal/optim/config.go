package optim

import (
	"strings"

	"github.com/pkg/errors"
)

// Config selects and configures an optimizer by name.
//
// Only the fields used by the named optimizer are read:
//   - SGD: LR, Momentum
//   - RMSPROP: LR, Rho, Eps
//   - ADAM: LR, Beta1, Beta2, Eps
type Config struct {
	Name     string  `json:"name"`
	LR       float64 `json:"lr"`
	Momentum float64 `json:"momentum,omitempty"`
	Rho      float64 `json:"rho,omitempty"`
	Beta1    float64 `json:"beta1,omitempty"`
	Beta2    float64 `json:"beta2,omitempty"`
	Eps      float64 `json:"eps,omitempty"`
}

// Validate checks the configuration of the named optimizer.
func (c Config) Validate() error {
	_, err := New(c)
	return err
}

// New creates the optimizer named by config.Name (case-insensitive).
func New(config Config) (Optimizer, error) {
	var (
		opt Optimizer
		err error
	)
	switch strings.ToUpper(config.Name) {
	case NameSGD:
		opt, err = NewSGD(SGDConfig{LR: config.LR, Momentum: config.Momentum})
	case NameRMSProp:
		opt, err = NewRMSProp(RMSPropConfig{LR: config.LR, Rho: config.Rho, Eps: config.Eps})
	case NameAdam:
		opt, err = NewAdam(AdamConfig{LR: config.LR, Beta1: config.Beta1, Beta2: config.Beta2, Eps: config.Eps})
	default:
		return nil, errors.Errorf("unknown optimizer %q (want %s, %s or %s)", config.Name, NameSGD, NameRMSProp, NameAdam)
	}
	if err != nil {
		return nil, err
	}
	return opt, nil
}
