package gate_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/mpcbench/allocate"
	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/gate"
	"github.com/katalvlaran/mpcbench/logging"
	"github.com/katalvlaran/mpcbench/metrics"
	"github.com/katalvlaran/mpcbench/oracle"
	"github.com/katalvlaran/mpcbench/render"
	"github.com/katalvlaran/mpcbench/world"
)

// script returns hooks that fail with errs in order, then succeed.
func script(errs ...error) (gate.Generator, gate.Checker, *[]int64) {
	var draws []int64
	n := 0
	gen := func(_ context.Context, rng *rand.Rand) (*core.Instance, error) {
		draws = append(draws, rng.Int63())
		return &core.Instance{Level: core.LevelEasy}, nil
	}
	check := func(inst *core.Instance) (*core.Label, error) {
		if n < len(errs) {
			n++
			return nil, errs[n-1]
		}
		return &core.Label{InstanceID: inst.ID}, nil
	}
	return gen, check, &draws
}

func states(trace []gate.Transition) []string {
	out := make([]string, len(trace))
	for i, tr := range trace {
		out[i] = tr.From.String() + ">" + tr.To.String()
	}
	return out
}

func TestRun_Accepts(t *testing.T) {
	gen, check, _ := script()
	out, err := gate.New(core.LevelEasy, gen, check).Run(context.Background(), "level1_001", 42)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, []string{"generating>validating", "validating>accepted"}, states(out.Trace))
	assert.Equal(t, "level1_001", out.Instance.ID)
	assert.Equal(t, "level1_001", out.Label.InstanceID)
	assert.Equal(t, int64(42), out.Instance.Seed)
	assert.Equal(t, 1, out.Instance.Attempt)
	assert.Equal(t, gate.UID("level1_001", 42), out.Instance.UID)
}

func TestRun_Retries(t *testing.T) {
	retry := fmt.Errorf("Solve: %w", oracle.ErrInsufficientCandidates)
	gen, check, draws := script(retry, allocate.ErrConstruction)
	rec := metrics.New()
	out, err := gate.New(core.LevelEasy, gen, check, gate.WithRecorder(rec)).Run(context.Background(), "x", 7)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, []string{
		"generating>validating", "validating>retrying", "retrying>generating",
		"generating>validating", "validating>retrying", "retrying>generating",
		"generating>validating", "validating>accepted",
	}, states(out.Trace))
	assert.Contains(t, out.Trace[1].Cause, "insufficient")
	assert.Equal(t, 3, out.Instance.Attempt)

	n, err := testutil.GatherAndCount(rec.Gatherer(), "mpcbench_gate_retries_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Each attempt draws from its own derived seed.
	require.Len(t, *draws, 3)
	assert.Equal(t, core.NewRand(core.DeriveSeed(7, 2)).Int63(), (*draws)[2])
	assert.NotEqual(t, (*draws)[0], (*draws)[1])
}

func TestRun_Exhausted(t *testing.T) {
	errs := make([]error, 10)
	for i := range errs {
		errs[i] = allocate.ErrConstruction
	}
	gen, check, _ := script(errs...)
	out, err := gate.New(core.LevelEasy, gen, check, gate.WithMaxAttempts(3)).Run(context.Background(), "x", 1)
	require.ErrorIs(t, err, gate.ErrExhaustedRetries)
	assert.ErrorIs(t, err, allocate.ErrConstruction)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, gate.Failed, out.Trace[len(out.Trace)-1].To)
	assert.Nil(t, out.Instance)
}

func TestRun_Fatal(t *testing.T) {
	fatal := &config.Error{Field: "levels", Reason: "missing entry"}
	gen := func(context.Context, *rand.Rand) (*core.Instance, error) { return nil, fatal }
	check := func(*core.Instance) (*core.Label, error) { t.Fatal("check after fatal"); return nil, nil }

	zc, logs := observer.New(zap.DebugLevel)
	out, err := gate.New(core.LevelEasy, gen, check, gate.WithLogger(logging.NewWithCore(zc))).Run(context.Background(), "x", 1)
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, []string{"generating>failed"}, states(out.Trace))
	assert.Equal(t, 1, logs.FilterMessage("instance failed").Len())
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen, _, _ := script()
	check := func(*core.Instance) (*core.Label, error) {
		cancel()
		return nil, allocate.ErrConstruction
	}
	_, err := gate.New(core.LevelEasy, gen, check).Run(ctx, "x", 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCause(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{allocate.ErrConstruction, "construction"},
		{fmt.Errorf("x: %w", oracle.ErrInsufficientCandidates), "insufficient"},
		{render.ErrTagDropped, "tag_dropped"},
		{errors.Join(oracle.ErrInvariant), "invariant"},
		{config.ErrInvalid, ""},
		{context.Canceled, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, gate.Cause(tc.err), "%v", tc.err)
	}
}

func TestOptions_Panics(t *testing.T) {
	gen, check, _ := script()
	assert.Panics(t, func() { gate.WithMaxAttempts(0) })
	assert.Panics(t, func() { gate.WithLogger(nil) })
	assert.Panics(t, func() { gate.WithRecorder(nil) })
	assert.Panics(t, func() { gate.New(core.LevelEasy, nil, check) })
	assert.Panics(t, func() { gate.New(core.LevelEasy, gen, nil) })
}

// TestPipeline runs the real hooks and checks reproducibility.
func TestPipeline(t *testing.T) {
	cfg := config.Default()
	for _, level := range []core.Level{core.LevelEasy, core.LevelMedium, core.LevelHard} {
		t.Run(level.String(), func(t *testing.T) {
			w, err := world.Build(cfg, level, world.WithSeed(1))
			require.NoError(t, err)
			g := gate.New(level, gate.Generate(cfg, w, render.Template{}), gate.Check(w), gate.WithMaxAttempts(40))

			a, err := g.Run(context.Background(), "inst", 99)
			require.NoError(t, err)
			b, err := g.Run(context.Background(), "inst", 99)
			require.NoError(t, err)
			if diff := cmp.Diff(a, b); diff != "" {
				t.Fatalf("outcomes differ (-a +b):\n%s", diff)
			}
			require.NoError(t, oracle.Verify(w, a.Instance, a.Label))
		})
	}
}

// TestPipeline_SeedSweep runs the real hooks over a range of seeds per level.
// A run either accepts a verified instance or exhausts its attempts on
// retryable causes; generation never fails fatally.
func TestPipeline_SeedSweep(t *testing.T) {
	if testing.Short() {
		t.Skip("seed sweep")
	}
	cfg := config.Default()
	for _, level := range []core.Level{core.LevelEasy, core.LevelMedium, core.LevelHard} {
		t.Run(level.String(), func(t *testing.T) {
			w, err := world.Build(cfg, level, world.WithSeed(1))
			require.NoError(t, err)
			g := gate.New(level, gate.Generate(cfg, w, render.Template{}), gate.Check(w), gate.WithMaxAttempts(40))

			for seed := int64(1); seed <= 40; seed++ {
				out, err := g.Run(context.Background(), fmt.Sprintf("sweep_%03d", seed), seed)
				if err != nil {
					require.ErrorIs(t, err, gate.ErrExhaustedRetries, "seed %d", seed)
					assert.NotEmpty(t, gate.Cause(err), "seed %d: %v", seed, err)
					continue
				}
				for _, tr := range out.Trace {
					assert.NotEqual(t, gate.Failed, tr.To, "seed %d", seed)
				}
				require.NoError(t, oracle.Verify(w, out.Instance, out.Label), "seed %d", seed)
			}
		})
	}
}
