package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/gate"
)

// Request describes one batch.
type Request struct {
	Level  core.Level
	Suffix string
	Count  int
	Seed   int64
}

// InstanceID names the instance at zero-based index i.
func (r Request) InstanceID(i int) string {
	return fmt.Sprintf("instance_%s_%s_%03d", r.Level, r.Suffix, i+1)
}

// InstanceSeed derives the seed of the instance at index i.
func (r Request) InstanceSeed(i int) int64 {
	return core.DeriveSeed(r.Seed, uint64(i))
}

// Failure is one instance the gate could not accept.
type Failure struct {
	Index    int
	ID       string
	Seed     int64
	Attempts int
	Err      error
}

// Report is the result of a batch. Instances[i] is labelled by Labels[i];
// both are in index order with failed indices skipped.
type Report struct {
	Level     core.Level
	Instances []*core.Instance
	Labels    []*core.Label
	Failures  []Failure
	// Attempts sums the gate attempts of every instance.
	Attempts int
}

// Accepted returns the number of accepted instances.
func (r *Report) Accepted() int { return len(r.Instances) }

// DiscardRate is the share of attempts that did not produce an accepted
// instance.
func (r *Report) DiscardRate() float64 {
	if r.Attempts == 0 {
		return 0
	}
	return float64(r.Attempts-r.Accepted()) / float64(r.Attempts)
}

type slot struct {
	out *gate.Outcome
	err error
}

// Run generates req.Count instances through g.
// Complexity: O(Count·gate.Run / workers) wall time.
func Run(ctx context.Context, g *gate.Gate, req Request, opts ...Option) (*Report, error) {
	const method = "Run"
	if req.Count < 1 || !req.Level.Valid() {
		return nil, fmt.Errorf("%s: count %d, level %d: %w", method, req.Count, int(req.Level), ErrInvalidRequest)
	}
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 1) Fan out; each worker owns its slot.
	slots := make([]slot, req.Count)
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers)
	for i := range slots {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := g.Run(gctx, req.InstanceID(i), req.InstanceSeed(i))
			if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				return err
			}
			slots[i] = slot{out: out, err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	// 2) Collect in index order.
	rep := &Report{Level: req.Level}
	for i, s := range slots {
		rep.Attempts += s.out.Attempts
		if s.err != nil {
			rep.Failures = append(rep.Failures, Failure{
				Index: i, ID: req.InstanceID(i), Seed: req.InstanceSeed(i),
				Attempts: s.out.Attempts, Err: s.err,
			})
			cfg.log.Warn("instance discarded", "instance", req.InstanceID(i), "error", s.err)
			continue
		}
		rep.Instances = append(rep.Instances, s.out.Instance)
		rep.Labels = append(rep.Labels, s.out.Label)
	}
	cfg.log.Info("batch done", "level", req.Level.String(), "accepted", rep.Accepted(),
		"failed", len(rep.Failures), "attempts", rep.Attempts, "discard_rate", rep.DiscardRate())
	return rep, nil
}
