package nn

import (
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
	"github.com/born-ml/dagnet/internal/serialization"
)

// OptimizerState represents an optimizer that can save/load its state.
//
// This interface is used by checkpoints to serialize optimizer state
// without creating import cycles. Optimizers from the optim package
// implement this interface.
type OptimizerState interface {
	// Name returns the optimizer type ("SGD", "RMSPROP", "ADAM").
	Name() string

	// LearningRate returns the current learning rate.
	LearningRate() float64

	// Hyperparameters returns the optimizer configuration.
	Hyperparameters() map[string]float64

	// State returns the optimizer buffers keyed by name.
	State() map[string]*linalg.Matrix

	// LoadState restores buffers produced by State.
	LoadState(state map[string]*linalg.Matrix) error
}

// Checkpoint represents a complete training state snapshot.
//
// A checkpoint includes:
//   - Network graph and parameters
//   - Optimizer state (momentum buffers, RMSProp averages, Adam moments)
//   - Training metadata (epoch, step, loss)
//   - Custom metadata
//
// Example:
//
//	checkpoint := &nn.Checkpoint{
//	    Network:   net,
//	    Optimizer: optimizer,
//	    Epoch:     10,
//	    Step:      5000,
//	    Loss:      0.123,
//	}
//	err := checkpoint.Save("checkpoint_epoch_10.dag")
//
// To resume training:
//
//	checkpoint, err := nn.LoadCheckpoint("checkpoint_epoch_10.dag", optimizer)
//	net := checkpoint.Network
//	startEpoch := checkpoint.Epoch + 1
type Checkpoint struct {
	Network   *Network       // The network with its parameters
	Optimizer OptimizerState // The optimizer with its state (optional)
	Epoch     int            // Training epoch number
	Step      int64          // Training step number
	Loss      float64        // Loss value at this checkpoint
	Metadata  map[string]any // Additional training metadata
	CreatedAt time.Time      // When the checkpoint was written
}

// Save writes the checkpoint to a .dag file.
//
// Optimizer buffers are stored as tensors prefixed with "optimizer.".
func (c *Checkpoint) Save(path string) error {
	if c.Network == nil {
		return errors.New("checkpoint has no network")
	}
	if err := checkActivations(c.Network); err != nil {
		return err
	}

	m := ToModel(c.Network)
	meta := &serialization.CheckpointMeta{
		Epoch:        c.Epoch,
		Step:         c.Step,
		Loss:         c.Loss,
		TrainingMeta: c.Metadata,
	}

	if c.Optimizer != nil {
		meta.OptimizerType = c.Optimizer.Name()
		meta.OptimizerConfig = c.Optimizer.Hyperparameters()

		state := c.Optimizer.State()
		keys := make([]string, 0, len(state))
		for k := range state {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			m.Tensors = append(m.Tensors, matrixTensor(optimizerPrefix+k, state[k]))
		}
	}
	m.Checkpoint = meta

	if err := serialization.WriteFile(path, m); err != nil {
		return errors.Wrap(err, "failed to write checkpoint")
	}
	return nil
}

// LoadCheckpoint loads a checkpoint from a .dag file.
//
// The network is rebuilt from the file. If optimizer is non-nil it must be
// of the type that wrote the checkpoint, and its state is restored.
//
// Example:
//
//	opt, _ := optim.NewRMSProp(optim.RMSPropConfig{LR: 0.01, Rho: 0.9, Eps: 1e-6})
//	checkpoint, err := nn.LoadCheckpoint("checkpoint.dag", opt)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Resume training from checkpoint.Epoch + 1
func LoadCheckpoint(path string, optimizer OptimizerState) (*Checkpoint, error) {
	m, header, err := serialization.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read checkpoint")
	}
	if m.Checkpoint == nil {
		return nil, errors.Errorf("%s is not a checkpoint", path)
	}

	n, err := FromModel(m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to restore network")
	}

	c := &Checkpoint{
		Network:   n,
		Optimizer: optimizer,
		Epoch:     m.Checkpoint.Epoch,
		Step:      m.Checkpoint.Step,
		Loss:      m.Checkpoint.Loss,
		Metadata:  m.Checkpoint.TrainingMeta,
		CreatedAt: header.CreatedAt,
	}

	if optimizer == nil {
		return c, nil
	}
	if m.Checkpoint.OptimizerType != optimizer.Name() {
		return nil, errors.Errorf("checkpoint was written by %q, got %q optimizer",
			m.Checkpoint.OptimizerType, optimizer.Name())
	}

	state := make(map[string]*linalg.Matrix)
	for _, t := range m.Tensors {
		key, ok := strings.CutPrefix(t.Name, optimizerPrefix)
		if !ok {
			continue
		}
		mat, err := linalg.NewMatrixFrom(t.Rows, t.Cols, t.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "optimizer tensor %q", t.Name)
		}
		state[key] = mat
	}
	if err := optimizer.LoadState(state); err != nil {
		return nil, errors.Wrap(err, "failed to restore optimizer state")
	}
	return c, nil
}
