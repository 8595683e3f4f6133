package gate

import (
	"context"
	"math/rand"

	"github.com/katalvlaran/mpcbench/allocate"
	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/materialize"
	"github.com/katalvlaran/mpcbench/oracle"
	"github.com/katalvlaran/mpcbench/render"
)

// Generate allocates and materializes one instance of w per call.
func Generate(cfg *config.Config, w *core.World, r render.Renderer, opts ...allocate.Option) Generator {
	return func(ctx context.Context, rng *rand.Rand) (*core.Instance, error) {
		p, err := allocate.Allocate(cfg, w, rng, opts...)
		if err != nil {
			return nil, err
		}
		return materialize.Materialize(ctx, cfg, w, p, r, rng)
	}
}

// Check labels an instance with the oracle and verifies it against the
// label.
func Check(w *core.World) Checker {
	return func(inst *core.Instance) (*core.Label, error) {
		label, err := oracle.RunInstance(w, inst)
		if err != nil {
			return nil, err
		}
		if err = oracle.Verify(w, inst, label); err != nil {
			return nil, err
		}
		return label, nil
	}
}
