package optim_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dagnet/internal/linalg"
	"github.com/born-ml/dagnet/internal/optim"
)

func matrix(t *testing.T, rows, cols int, data ...float64) *linalg.Matrix {
	t.Helper()
	m, err := linalg.NewMatrixFrom(rows, cols, data)
	require.NoError(t, err)
	return m
}

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	opt, err := optim.NewSGD(optim.SGDConfig{LR: 0.1})
	require.NoError(t, err)

	updates, err := opt.Update([]*linalg.Matrix{matrix(t, 1, 2, 1.0, -4.0)})
	require.NoError(t, err)
	require.Len(t, updates, 1)

	// update = lr * grad
	assert.InDeltaSlice(t, []float64{0.1, -0.4}, updates[0].Data(), 1e-12)
	assert.Empty(t, opt.State(), "plain SGD keeps no state")
}

// TestSGD_WithMomentum tests SGD with momentum over two steps.
func TestSGD_WithMomentum(t *testing.T) {
	opt, err := optim.NewSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	require.NoError(t, err)
	grad := []*linalg.Matrix{matrix(t, 1, 1, 1.0)}

	// Step 1: v = 0.9*0 + 1 = 1, update = 0.1
	updates, err := opt.Update(grad)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, updates[0].At(0, 0), 1e-12)

	// Step 2: v = 0.9*1 + 1 = 1.9, update = 0.19
	updates, err = opt.Update(grad)
	require.NoError(t, err)
	assert.InDelta(t, 0.19, updates[0].At(0, 0), 1e-12)

	state := opt.State()
	require.Contains(t, state, "velocity.0")
	assert.InDelta(t, 1.9, state["velocity.0"].At(0, 0), 1e-12)
}

// TestRMSProp_Update checks the update formula against a hand computation.
func TestRMSProp_Update(t *testing.T) {
	opt, err := optim.NewRMSProp(optim.RMSPropConfig{LR: 0.01, Rho: 0.9, Eps: 1e-6})
	require.NoError(t, err)

	g := []*linalg.Matrix{matrix(t, 2, 1, 2.0, -0.5)}

	// Step 1: s = 0.1 * g²
	updates, err := opt.Update(g)
	require.NoError(t, err)
	s0 := []float64{0.1 * 4, 0.1 * 0.25}
	assert.InDelta(t, 0.01*2.0/math.Sqrt(s0[0]+1e-6), updates[0].At(0, 0), 1e-12)
	assert.InDelta(t, 0.01*-0.5/math.Sqrt(s0[1]+1e-6), updates[0].At(1, 0), 1e-12)

	// Step 2: s = 0.9 * s + 0.1 * g²
	updates, err = opt.Update(g)
	require.NoError(t, err)
	s1 := []float64{0.9*s0[0] + 0.4, 0.9*s0[1] + 0.025}
	assert.InDelta(t, 0.01*2.0/math.Sqrt(s1[0]+1e-6), updates[0].At(0, 0), 1e-12)
	assert.InDelta(t, 0.01*-0.5/math.Sqrt(s1[1]+1e-6), updates[0].At(1, 0), 1e-12)
}

// TestAdam_FirstStep verifies that bias correction makes the first update lr*sign(g).
func TestAdam_FirstStep(t *testing.T) {
	opt, err := optim.NewAdam(optim.AdamConfig{LR: 0.001, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8})
	require.NoError(t, err)

	updates, err := opt.Update([]*linalg.Matrix{matrix(t, 1, 3, 3.0, -0.2, 0)})
	require.NoError(t, err)

	assert.InDelta(t, 0.001, updates[0].At(0, 0), 1e-9)
	assert.InDelta(t, -0.001, updates[0].At(0, 1), 1e-9)
	assert.InDelta(t, 0, updates[0].At(0, 2), 1e-12)
	assert.Equal(t, 1, opt.Timestep())
}

// TestAdam_BiasCorrection compares two steps against the closed form.
func TestAdam_BiasCorrection(t *testing.T) {
	const lr, b1, b2, eps = 0.01, 0.9, 0.999, 1e-8
	opt, err := optim.NewAdam(optim.AdamConfig{LR: lr, Beta1: b1, Beta2: b2, Eps: eps})
	require.NoError(t, err)

	_, err = opt.Update([]*linalg.Matrix{matrix(t, 1, 1, 1.0)})
	require.NoError(t, err)
	updates, err := opt.Update([]*linalg.Matrix{matrix(t, 1, 1, 2.0)})
	require.NoError(t, err)

	m := b1*(1-b1)*1 + (1-b1)*2
	v := b2*(1-b2)*1 + (1-b2)*4
	mHat := m / (1 - b1*b1)
	vHat := v / (1 - b2*b2)
	assert.InDelta(t, lr*mHat/(math.Sqrt(vHat)+eps), updates[0].At(0, 0), 1e-12)
}

// TestConfigValidation verifies that invalid hyperparameters are rejected, not defaulted.
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		cfg   optim.Config
		field string
	}{
		{"sgd zero lr", optim.Config{Name: "SGD"}, "LR"},
		{"sgd negative lr", optim.Config{Name: "SGD", LR: -1}, "LR"},
		{"sgd momentum one", optim.Config{Name: "SGD", LR: 0.1, Momentum: 1}, "Momentum"},
		{"rmsprop nan lr", optim.Config{Name: "RMSPROP", LR: math.NaN(), Rho: 0.9, Eps: 1e-6}, "LR"},
		{"rmsprop rho above one", optim.Config{Name: "RMSPROP", LR: 0.1, Rho: 1.5, Eps: 1e-6}, "Rho"},
		{"rmsprop zero eps", optim.Config{Name: "RMSPROP", LR: 0.1, Rho: 0.9}, "Eps"},
		{"adam negative beta1", optim.Config{Name: "ADAM", LR: 0.1, Beta1: -0.1, Beta2: 0.999, Eps: 1e-8}, "Beta1"},
		{"adam beta2 one", optim.Config{Name: "ADAM", LR: 0.1, Beta1: 0.9, Beta2: 1, Eps: 1e-8}, "Beta2"},
		{"adam infinite lr", optim.Config{Name: "ADAM", LR: math.Inf(1), Beta1: 0.9, Beta2: 0.999, Eps: 1e-8}, "LR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, err := optim.New(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, opt)

			var cfgErr *optim.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %T", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	_, err := optim.New(optim.Config{Name: "lbfgs", LR: 0.1})
	assert.Error(t, err)
}

// TestNew_ByName builds each optimizer from a Config.
func TestNew_ByName(t *testing.T) {
	for _, cfg := range []optim.Config{
		{Name: "sgd", LR: 0.1, Momentum: 0.5},
		{Name: "RMSPROP", LR: 0.01, Rho: 0.9, Eps: 1e-6},
		{Name: "Adam", LR: 0.001, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8},
	} {
		opt, err := optim.New(cfg)
		require.NoError(t, err, cfg.Name)
		assert.Equal(t, cfg.LR, opt.LearningRate())
		assert.Equal(t, cfg.LR, opt.Hyperparameters()["lr"])
	}
}

// TestStateShapeMismatch verifies that changing the gradient layout is an error.
func TestStateShapeMismatch(t *testing.T) {
	opts := []optim.Optimizer{
		mustNew(t, optim.Config{Name: "SGD", LR: 0.1, Momentum: 0.9}),
		mustNew(t, optim.Config{Name: "SGD", LR: 0.1}),
		mustNew(t, optim.Config{Name: "RMSPROP", LR: 0.1, Rho: 0.9, Eps: 1e-6}),
		mustNew(t, optim.Config{Name: "ADAM", LR: 0.1, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8}),
	}
	for _, opt := range opts {
		t.Run(opt.Name(), func(t *testing.T) {
			_, err := opt.Update([]*linalg.Matrix{matrix(t, 2, 2, 1, 2, 3, 4)})
			require.NoError(t, err)

			_, err = opt.Update([]*linalg.Matrix{matrix(t, 1, 4, 1, 2, 3, 4)})
			assert.True(t, errors.Is(err, optim.ErrStateShape), "got %v", err)

			_, err = opt.Update([]*linalg.Matrix{matrix(t, 2, 2, 1, 2, 3, 4), matrix(t, 1, 1, 0)})
			assert.True(t, errors.Is(err, optim.ErrStateShape), "got %v", err)

			// After Reset the optimizer adopts the new layout.
			opt.Reset()
			_, err = opt.Update([]*linalg.Matrix{matrix(t, 1, 4, 1, 2, 3, 4)})
			assert.NoError(t, err)
		})
	}
}

// TestReset verifies that Reset discards accumulated state.
func TestReset(t *testing.T) {
	opt := mustNew(t, optim.Config{Name: "RMSPROP", LR: 0.01, Rho: 0.9, Eps: 1e-6})
	g := []*linalg.Matrix{matrix(t, 1, 1, 1.0)}

	first, err := opt.Update(g)
	require.NoError(t, err)
	want := first[0].At(0, 0)

	_, err = opt.Update(g)
	require.NoError(t, err)

	opt.Reset()
	assert.Empty(t, opt.State())
	again, err := opt.Update(g)
	require.NoError(t, err)
	assert.Equal(t, want, again[0].At(0, 0))
}

// TestStateRoundTrip verifies that a restored optimizer continues identically.
func TestStateRoundTrip(t *testing.T) {
	configs := []optim.Config{
		{Name: "SGD", LR: 0.1, Momentum: 0.9},
		{Name: "RMSPROP", LR: 0.01, Rho: 0.9, Eps: 1e-6},
		{Name: "ADAM", LR: 0.001, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8},
	}
	for _, cfg := range configs {
		t.Run(cfg.Name, func(t *testing.T) {
			g1 := []*linalg.Matrix{matrix(t, 1, 2, 0.5, -1), matrix(t, 1, 1, 2)}
			g2 := []*linalg.Matrix{matrix(t, 1, 2, -0.25, 3), matrix(t, 1, 1, 1)}

			a := mustNew(t, cfg)
			_, err := a.Update(g1)
			require.NoError(t, err)

			b := mustNew(t, cfg)
			require.NoError(t, b.LoadState(a.State()))

			ua, err := a.Update(g2)
			require.NoError(t, err)
			ub, err := b.Update(g2)
			require.NoError(t, err)
			for i := range ua {
				assert.Equal(t, ua[i].Data(), ub[i].Data())
			}
		})
	}
}

// TestLoadState_Rejects covers malformed state maps.
func TestLoadState_Rejects(t *testing.T) {
	sgd := mustNew(t, optim.Config{Name: "SGD", LR: 0.1})
	assert.Error(t, sgd.LoadState(map[string]*linalg.Matrix{"velocity.0": matrix(t, 1, 1, 1)}),
		"velocity without momentum")

	rms := mustNew(t, optim.Config{Name: "RMSPROP", LR: 0.1, Rho: 0.9, Eps: 1e-6})
	assert.Error(t, rms.LoadState(map[string]*linalg.Matrix{"square_avg.1": matrix(t, 1, 1, 1)}), "gap in indices")
	assert.Error(t, rms.LoadState(map[string]*linalg.Matrix{"velocity.0": matrix(t, 1, 1, 1)}), "foreign key")
	assert.Error(t, rms.LoadState(map[string]*linalg.Matrix{"square_avg.x": matrix(t, 1, 1, 1)}), "bad index")

	adam := mustNew(t, optim.Config{Name: "ADAM", LR: 0.1, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8})
	assert.Error(t, adam.LoadState(map[string]*linalg.Matrix{
		"m.0": matrix(t, 1, 1, 1), "v.0": matrix(t, 1, 2, 1, 1), "step.0": matrix(t, 1, 1, 1),
	}), "moment shapes differ")
	assert.Error(t, adam.LoadState(map[string]*linalg.Matrix{
		"m.0": matrix(t, 1, 1, 1), "v.0": matrix(t, 1, 1, 1),
	}), "missing step")
}

// TestSetLearningRate checks that scheduling affects the next update.
func TestSetLearningRate(t *testing.T) {
	opt := mustNew(t, optim.Config{Name: "SGD", LR: 0.1})
	require.NoError(t, opt.SetLearningRate(0.5))
	assert.Equal(t, 0.5, opt.LearningRate())

	updates, err := opt.Update([]*linalg.Matrix{matrix(t, 1, 1, 2)})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, updates[0].At(0, 0), 1e-12)
}

// TestSetLearningRate_Invalid rejects rates that are not finite and positive.
func TestSetLearningRate_Invalid(t *testing.T) {
	configs := []optim.Config{
		{Name: "SGD", LR: 0.1},
		{Name: "RMSPROP", LR: 0.01, Rho: 0.9, Eps: 1e-8},
		{Name: "ADAM", LR: 0.05, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8},
	}
	for _, cfg := range configs {
		opt := mustNew(t, cfg)
		for _, lr := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
			err := opt.SetLearningRate(lr)
			var cfgErr *optim.ConfigError
			require.True(t, errors.As(err, &cfgErr), "%s lr=%g: got %v", cfg.Name, lr, err)
			assert.Equal(t, "LR", cfgErr.Field)
		}
		assert.Equal(t, cfg.LR, opt.LearningRate(), cfg.Name)
	}
}

// TestConvergence_SimpleQuadratic minimizes f(x) = (x-3)² with every optimizer.
func TestConvergence_SimpleQuadratic(t *testing.T) {
	configs := []optim.Config{
		{Name: "SGD", LR: 0.1},
		{Name: "SGD", LR: 0.05, Momentum: 0.5},
		{Name: "RMSPROP", LR: 0.01, Rho: 0.9, Eps: 1e-8},
		{Name: "ADAM", LR: 0.05, Beta1: 0.9, Beta2: 0.999, Eps: 1e-8},
	}
	for _, cfg := range configs {
		opt := mustNew(t, cfg)
		x := matrix(t, 1, 1, 0)
		grad := matrix(t, 1, 1, 0)
		for range 2000 {
			grad.Set(0, 0, 2*(x.At(0, 0)-3))
			updates, err := opt.Update([]*linalg.Matrix{grad})
			require.NoError(t, err)
			linalg.SubInPlace(x, updates[0])
		}
		assert.InDelta(t, 3.0, x.At(0, 0), 0.05, "%s momentum=%g", cfg.Name, cfg.Momentum)
	}
}

func mustNew(t *testing.T, cfg optim.Config) optim.Optimizer {
	t.Helper()
	opt, err := optim.New(cfg)
	require.NoError(t, err)
	return opt
}
