package batch_test

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/mpcbench/allocate"
	"github.com/katalvlaran/mpcbench/batch"
	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/gate"
	"github.com/katalvlaran/mpcbench/render"
	"github.com/katalvlaran/mpcbench/world"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fake builds a gate whose first attempt always retries and whose
// instance "_003" fails fatally.
func fake() *gate.Gate {
	gen := func(_ context.Context, rng *rand.Rand) (*core.Instance, error) {
		return &core.Instance{Level: core.LevelEasy, TaskText: "draw"}, nil
	}
	check := func(inst *core.Instance) (*core.Label, error) {
		if strings.HasSuffix(inst.ID, "_003") {
			return nil, &config.Error{Field: "levels", Reason: "broken"}
		}
		if inst.Attempt == 1 {
			return nil, allocate.ErrConstruction
		}
		return &core.Label{InstanceID: inst.ID, Level: inst.Level}, nil
	}
	return gate.New(core.LevelEasy, gen, check)
}

func TestRun_CollectsFailures(t *testing.T) {
	req := batch.Request{Level: core.LevelEasy, Suffix: "t", Count: 4, Seed: 9}
	rep, err := batch.Run(context.Background(), fake(), req, batch.WithWorkers(3))
	require.NoError(t, err)

	require.Equal(t, 3, rep.Accepted())
	for i, index := range []int{0, 1, 3} {
		inst := rep.Instances[i]
		assert.Equal(t, req.InstanceID(index), inst.ID)
		assert.Equal(t, req.InstanceSeed(index), inst.Seed)
		assert.Equal(t, inst.ID, rep.Labels[i].InstanceID)
	}
	assert.Equal(t, "instance_level1_t_004", rep.Instances[2].ID)

	require.Len(t, rep.Failures, 1)
	f := rep.Failures[0]
	assert.Equal(t, 2, f.Index)
	assert.Equal(t, "instance_level1_t_003", f.ID)
	assert.ErrorIs(t, f.Err, config.ErrInvalid)
	assert.Equal(t, 1, f.Attempts)

	// Accepted instances take two attempts, the failure one: 7 in total.
	assert.Equal(t, 7, rep.Attempts)
	assert.InDelta(t, 4.0/7.0, rep.DiscardRate(), 1e-9)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := batch.Run(ctx, fake(), batch.Request{Level: core.LevelEasy, Suffix: "t", Count: 8}, batch.WithWorkers(2))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_InvalidRequest(t *testing.T) {
	_, err := batch.Run(context.Background(), fake(), batch.Request{Level: core.LevelEasy, Count: 0})
	assert.ErrorIs(t, err, batch.ErrInvalidRequest)
	_, err = batch.Run(context.Background(), fake(), batch.Request{Level: 7, Count: 1})
	assert.ErrorIs(t, err, batch.ErrInvalidRequest)
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { batch.WithWorkers(0) })
	assert.Panics(t, func() { batch.WithLogger(nil) })
}

func TestReport_DiscardRateEmpty(t *testing.T) {
	assert.Zero(t, (&batch.Report{}).DiscardRate())
}

// TestRun_ScheduleIndependent checks that the worker count does not change
// the generated batch.
func TestRun_ScheduleIndependent(t *testing.T) {
	cfg := config.Default()
	for _, level := range []core.Level{core.LevelEasy, core.LevelHard} {
		t.Run(level.String(), func(t *testing.T) {
			w, err := world.Build(cfg, level, world.WithSeed(2))
			require.NoError(t, err)
			g := gate.New(level, gate.Generate(cfg, w, render.Template{}), gate.Check(w), gate.WithMaxAttempts(40))
			req := batch.Request{Level: level, Suffix: "det", Count: 6, Seed: 123}

			serial, err := batch.Run(context.Background(), g, req, batch.WithWorkers(1))
			require.NoError(t, err)
			parallel, err := batch.Run(context.Background(), g, req, batch.WithWorkers(4))
			require.NoError(t, err)

			require.Empty(t, serial.Failures)
			require.Equal(t, req.Count, serial.Accepted())
			if diff := cmp.Diff(serial.Instances, parallel.Instances); diff != "" {
				t.Fatalf("instances differ (-serial +parallel):\n%s", diff)
			}
			if diff := cmp.Diff(serial.Labels, parallel.Labels); diff != "" {
				t.Fatalf("labels differ (-serial +parallel):\n%s", diff)
			}
			assert.Equal(t, serial.Attempts, parallel.Attempts)
		})
	}
}
