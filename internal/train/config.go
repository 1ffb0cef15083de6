package train

import (
	"bytes"
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/nn"
	"github.com/born-ml/dagnet/internal/optim"
)

// Config holds the training loop settings.
type Config struct {
	Epochs    int     `json:"epochs"`     // Number of passes over the data, > 0
	BatchSize int     `json:"batch_size"` // Samples per optimizer step, > 0
	Clip      float64 `json:"clip"`       // Per-entry gradient clip; 0 disables clipping
	Seed      int64   `json:"seed"`       // Shuffle seed; 0 seeds from the clock

	CheckpointPath  string `json:"checkpoint_path,omitempty"`  // Where checkpoints are written
	CheckpointEvery int    `json:"checkpoint_every,omitempty"` // Epochs between checkpoints; 0 disables
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Epochs <= 0 {
		return errors.Errorf("epochs must be > 0, got %d", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return errors.Errorf("batch size must be > 0, got %d", c.BatchSize)
	}
	if c.Clip < 0 || math.IsNaN(c.Clip) || math.IsInf(c.Clip, 0) {
		return errors.Errorf("clip must be a finite value >= 0, got %g", c.Clip)
	}
	if c.CheckpointEvery < 0 {
		return errors.Errorf("checkpoint interval must be >= 0, got %d", c.CheckpointEvery)
	}
	if c.CheckpointEvery > 0 && c.CheckpointPath == "" {
		return errors.New("checkpoint interval set without a checkpoint path")
	}
	return nil
}

// RunConfig bundles everything needed to start a training run.
//
// Example JSON:
//
//	{
//	  "train": {"epochs": 20, "batch_size": 32, "seed": 7},
//	  "optimizer": {"name": "RMSPROP", "lr": 0.01, "rho": 0.9, "eps": 1e-6},
//	  "loss": "MSE"
//	}
type RunConfig struct {
	Train     Config       `json:"train"`
	Optimizer optim.Config `json:"optimizer"`
	Loss      string       `json:"loss"`
}

// Validate checks every section of the configuration.
func (c RunConfig) Validate() error {
	if err := c.Train.Validate(); err != nil {
		return errors.Wrap(err, "train")
	}
	if err := c.Optimizer.Validate(); err != nil {
		return errors.Wrap(err, "optimizer")
	}
	if _, err := nn.LossByName(c.Loss); err != nil {
		return errors.Wrap(err, "loss")
	}
	return nil
}

// Build creates the optimizer and loss named by the configuration.
func (c RunConfig) Build() (optim.Optimizer, nn.Loss, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	opt, err := optim.New(c.Optimizer)
	if err != nil {
		return nil, nil, err
	}
	loss, err := nn.LossByName(c.Loss)
	if err != nil {
		return nil, nil, err
	}
	return opt, loss, nil
}

// ParseConfig decodes and validates a JSON run configuration.
// Unknown fields are rejected.
func ParseConfig(data []byte) (*RunConfig, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var cfg RunConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads a JSON run configuration from path.
func LoadConfig(path string) (*RunConfig, error) {
	//nolint:gosec // G304: File path comes from user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config")
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}
