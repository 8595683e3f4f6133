package gate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/katalvlaran/mpcbench/constraint"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/logging"
	"github.com/katalvlaran/mpcbench/metrics"
	"github.com/katalvlaran/mpcbench/oracle"
	"github.com/katalvlaran/mpcbench/render"
)

// Generator produces one candidate instance from rng.
type Generator func(ctx context.Context, rng *rand.Rand) (*core.Instance, error)

// Checker labels a candidate instance and verifies its invariants.
type Checker func(inst *core.Instance) (*core.Label, error)

// Gate is the quality gate of one level. It holds no per-run state and may
// be shared by workers.
type Gate struct {
	level       core.Level
	generate    Generator
	check       Checker
	maxAttempts int
	log         *logging.Logger
	rec         *metrics.Recorder
}

// New builds a gate. Panics if generate or check is nil.
func New(level core.Level, generate Generator, check Checker, opts ...Option) *Gate {
	if generate == nil || check == nil {
		panic("gate: New(nil hook)")
	}
	g := &Gate{
		level:       level,
		generate:    generate,
		check:       check,
		maxAttempts: DefaultMaxAttempts,
		log:         logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Outcome is what one Run produced. Trace lists every transition in order.
type Outcome struct {
	Instance *core.Instance
	Label    *core.Label
	Attempts int
	Trace    []Transition
}

var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/katalvlaran/mpcbench"))

// UID derives the stable instance uid (UUIDv5) from id and seed.
func UID(id string, seed int64) string {
	return uuid.NewSHA1(uidSpace, []byte(fmt.Sprintf("%s/%d", id, seed))).String()
}

// Run drives the state machine for instance id until it is accepted or
// fails. The returned Outcome is never nil; on failure it holds the trace.
// Complexity: O(MaxAttempts·(Generate + Check)).
func (g *Gate) Run(ctx context.Context, id string, seed int64) (*Outcome, error) {
	const method = "Run"
	out := &Outcome{}
	state := Generating
	var (
		inst  *core.Instance
		label *core.Label
		last  error
	)
	move := func(to State, cause error) {
		tr := Transition{Attempt: out.Attempts, From: state, To: to}
		if cause != nil {
			tr.Cause = cause.Error()
		}
		out.Trace = append(out.Trace, tr)
		g.log.Debug("gate transition", "instance", id, "attempt", out.Attempts,
			"from", state.String(), "to", to.String(), "cause", tr.Cause)
		state = to
	}
	fail := func(err error) {
		last = err
		if c := Cause(err); c != "" {
			g.rec.Attempt(g.level, metrics.Retried)
			g.rec.Retry(g.level, c)
			move(Retrying, err)
			return
		}
		g.rec.Attempt(g.level, metrics.Failed)
		move(Failed, err)
	}

	for {
		switch state {
		case Generating:
			out.Attempts++
			rng := core.NewRand(core.DeriveSeed(seed, uint64(out.Attempts-1)))
			var err error
			if inst, err = g.generate(ctx, rng); err != nil {
				fail(err)
				continue
			}
			inst.ID, inst.UID, inst.Seed, inst.Attempt = id, UID(id, seed), seed, out.Attempts
			move(Validating, nil)

		case Validating:
			var err error
			if label, err = g.check(inst); err != nil {
				fail(err)
				continue
			}
			g.rec.Attempt(g.level, metrics.Accepted)
			move(Accepted, nil)

		case Retrying:
			if err := ctx.Err(); err != nil {
				last = err
				move(Failed, err)
				continue
			}
			if out.Attempts >= g.maxAttempts {
				last = fmt.Errorf("%w after %d attempts: %w", ErrExhaustedRetries, out.Attempts, last)
				move(Failed, ErrExhaustedRetries)
				continue
			}
			move(Generating, nil)

		case Accepted:
			g.rec.Instance(g.level, metrics.Accepted, out.Attempts)
			g.log.Info("instance accepted", "instance", id, "attempts", out.Attempts)
			out.Instance, out.Label = inst, label
			return out, nil

		case Failed:
			g.rec.Instance(g.level, metrics.Failed, out.Attempts)
			g.log.Warn("instance failed", "instance", id, "attempts", out.Attempts, "error", last)
			return out, fmt.Errorf("%s(%s): %w", method, id, last)
		}
	}
}

// Cause classifies a discardable error for logs and metrics. It returns ""
// for errors the gate must not retry.
func Cause(err error) string {
	switch {
	case errors.Is(err, constraint.ErrConstruction):
		return "construction"
	case errors.Is(err, oracle.ErrInsufficientCandidates):
		return "insufficient"
	case errors.Is(err, render.ErrTagDropped):
		return "tag_dropped"
	case errors.Is(err, oracle.ErrInvariant):
		return "invariant"
	}
	return ""
}
