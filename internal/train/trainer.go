// Package train implements minibatch training of networks.
//
// A Trainer drives a network, an optimizer and a loss:
//
//	trainer, err := train.New(net, optimizer, nn.MSELoss{}, train.Config{
//	    Epochs:    20,
//	    BatchSize: 32,
//	    Seed:      7,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trainer.SetLogger(slog.Default())
//	history, err := trainer.Fit(samples)
//
// Each epoch shuffles the samples into minibatches. For every minibatch the
// per-sample parameter gradients are averaged, the optimizer turns the
// average into an update and the update is subtracted from the parameters.
package train

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/dagnet/internal/linalg"
	"github.com/born-ml/dagnet/internal/nn"
	"github.com/born-ml/dagnet/internal/optim"
)

// ErrStop may be returned by an epoch hook to end training early.
var ErrStop = errors.New("training stopped")

// EpochStats summarizes one epoch.
type EpochStats struct {
	Epoch    int           // 1-based epoch number
	Loss     float64       // Mean sample loss over the epoch
	Batches  int           // Optimizer steps taken
	Duration time.Duration // Wall time of the epoch
}

// History is the list of completed epochs, in order.
type History []EpochStats

// Last returns the most recent epoch, or the zero value if there is none.
func (h History) Last() EpochStats {
	if len(h) == 0 {
		return EpochStats{}
	}
	return h[len(h)-1]
}

// Trainer runs minibatch gradient descent on a network.
//
// A Trainer is not safe for concurrent use.
type Trainer struct {
	net    *nn.Network
	opt    optim.Optimizer
	loss   nn.Loss
	cfg    Config
	rng    *rand.Rand
	logger *slog.Logger
	hook   func(EpochStats) error

	outputs  []nn.Layer
	accum    []*linalg.Matrix // Batch mean of the parameter gradients
	outGrads [][]float64      // dL/dY per network output
	epoch    int              // Epochs completed
	step     int64            // Optimizer steps taken
}

// New creates a Trainer. The configuration is validated; nothing is
// defaulted.
func New(net *nn.Network, opt optim.Optimizer, loss nn.Loss, cfg Config) (*Trainer, error) {
	if net == nil || opt == nil || loss == nil {
		return nil, errors.New("trainer needs a network, an optimizer and a loss")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	t := &Trainer{
		net:     net,
		opt:     opt,
		loss:    loss,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		logger:  slog.New(slog.DiscardHandler),
		outputs: net.Outputs(),
	}
	for _, p := range net.Parameters() {
		t.accum = append(t.accum, linalg.ZerosLike(p.Grad()))
	}
	for _, l := range t.outputs {
		t.outGrads = append(t.outGrads, make([]float64, l.Size()))
	}
	return t, nil
}

// SetLogger sets the logger for epoch and checkpoint records.
// Per-batch records are logged at debug level.
func (t *Trainer) SetLogger(logger *slog.Logger) {
	t.logger = logger
}

// OnEpoch registers fn to run after every epoch. Returning ErrStop ends
// training without error; any other error aborts Fit.
func (t *Trainer) OnEpoch(fn func(EpochStats) error) {
	t.hook = fn
}

// Resume continues numbering from a checkpoint: the next Fit starts at
// epoch+1 and runs until cfg.Epochs.
func (t *Trainer) Resume(epoch int, step int64) {
	t.epoch = epoch
	t.step = step
}

// Epoch returns the number of completed epochs.
func (t *Trainer) Epoch() int { return t.epoch }

// Steps returns the number of optimizer steps taken.
func (t *Trainer) Steps() int64 { return t.step }

// Step trains on one minibatch of data, given as indices into data, and
// returns the mean sample loss before the update.
//
// For every sample: Forward, loss gradient, Backward; each parameter
// gradient is clipped to [-Clip, Clip] when Clip > 0 and added to the
// accumulator scaled by 1/len(batch). The optimizer update computed from
// the accumulator is then subtracted from the parameters.
//
// Batch indices and the samples they select are validated before any
// parameter changes.
func (t *Trainer) Step(data []Sample, batch []int) (float64, error) {
	if len(batch) == 0 {
		return 0, errors.New("empty batch")
	}
	for _, idx := range batch {
		if idx < 0 || idx >= len(data) {
			return 0, errors.Errorf("batch index %d out of range [0, %d)", idx, len(data))
		}
		if err := checkSample(t.net, idx, data[idx]); err != nil {
			return 0, err
		}
	}
	for _, a := range t.accum {
		a.Zero()
	}

	params := t.net.Parameters()
	scale := 1 / float64(len(batch))
	var total float64
	for _, idx := range batch {
		s := data[idx]
		if err := t.net.Forward(s.Inputs...); err != nil {
			return 0, errors.Wrapf(err, "sample %d", idx)
		}
		for k, out := range t.outputs {
			pred := out.Output()
			total += nn.LossValue(t.loss, pred, s.Targets[k])
			t.loss.Gradient(t.outGrads[k], pred, s.Targets[k])
		}
		if err := t.net.Backward(t.outGrads...); err != nil {
			return 0, errors.Wrapf(err, "sample %d", idx)
		}

		for i, p := range params {
			g := p.Grad()
			if t.cfg.Clip > 0 {
				linalg.Clip(g, t.cfg.Clip)
			}
			linalg.AddScaled(t.accum[i], scale, g)
		}
	}

	updates, err := t.opt.Update(t.accum)
	if err != nil {
		return 0, errors.Wrap(err, "optimizer update")
	}
	for i, p := range params {
		linalg.SubInPlace(p.Value(), updates[i])
	}
	t.step++
	return total * scale, nil
}

// Fit trains for the configured number of epochs and returns the
// statistics of each epoch.
func (t *Trainer) Fit(data []Sample) (History, error) {
	if len(data) == 0 {
		return nil, errors.New("no training data")
	}
	if err := CheckSamples(t.net, data); err != nil {
		return nil, err
	}

	var history History
	for t.epoch < t.cfg.Epochs {
		epoch := t.epoch + 1
		start := time.Now()

		batches := Partition(len(data), t.cfg.BatchSize, t.rng)
		var total float64
		for b, batch := range batches {
			loss, err := t.Step(data, batch)
			if err != nil {
				return history, errors.Wrapf(err, "epoch %d batch %d", epoch, b)
			}
			total += loss * float64(len(batch))
			t.logger.Debug("batch", "epoch", epoch, "batch", b, "loss", loss)
		}

		stats := EpochStats{
			Epoch:    epoch,
			Loss:     total / float64(len(data)),
			Batches:  len(batches),
			Duration: time.Since(start),
		}
		t.epoch = epoch
		history = append(history, stats)
		t.logger.Info("epoch",
			"epoch", stats.Epoch,
			"loss", stats.Loss,
			"batches", stats.Batches,
			"duration", stats.Duration,
		)

		if t.cfg.CheckpointEvery > 0 && epoch%t.cfg.CheckpointEvery == 0 {
			if err := t.checkpoint(stats); err != nil {
				return history, err
			}
		}

		if t.hook != nil {
			if err := t.hook(stats); err != nil {
				if errors.Is(err, ErrStop) {
					t.logger.Info("training stopped", "epoch", epoch)
					return history, nil
				}
				return history, errors.Wrapf(err, "epoch %d hook", epoch)
			}
		}
	}
	return history, nil
}

func (t *Trainer) checkpoint(stats EpochStats) error {
	c := &nn.Checkpoint{
		Network:   t.net,
		Optimizer: t.opt,
		Epoch:     stats.Epoch,
		Step:      t.step,
		Loss:      stats.Loss,
		Metadata: map[string]any{
			"batch_size": t.cfg.BatchSize,
			"loss_fn":    t.loss.Name(),
		},
	}
	if err := c.Save(t.cfg.CheckpointPath); err != nil {
		return errors.Wrapf(err, "epoch %d checkpoint", stats.Epoch)
	}
	t.logger.Info("checkpoint saved", "epoch", stats.Epoch, "path", t.cfg.CheckpointPath)
	return nil
}

// Evaluate returns the mean sample loss over data without updating
// parameters.
func (t *Trainer) Evaluate(data []Sample) (float64, error) {
	if len(data) == 0 {
		return 0, errors.New("no evaluation data")
	}
	if err := CheckSamples(t.net, data); err != nil {
		return 0, err
	}

	var total float64
	for i, s := range data {
		if err := t.net.Forward(s.Inputs...); err != nil {
			return 0, errors.Wrapf(err, "sample %d", i)
		}
		for k, out := range t.outputs {
			total += nn.LossValue(t.loss, out.Output(), s.Targets[k])
		}
	}
	return total / float64(len(data)), nil
}
