package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/mpcbench/batch"
	"github.com/katalvlaran/mpcbench/gate"
	"github.com/katalvlaran/mpcbench/metrics"
	"github.com/katalvlaran/mpcbench/render"
	"github.com/katalvlaran/mpcbench/store"
)

func (a *app) generateCmd() *cobra.Command {
	var (
		count       int
		seed        int64
		workers     int
		maxAttempts int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate instances and oracle labels for a level",
		Long: `Builds the level's world, generates --count instances through the quality
gate and writes the world, instances, labels, per-source artifacts and a
Prometheus metrics textfile under --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.layout()
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.cfg.Batch.Workers
			}
			if maxAttempts <= 0 {
				maxAttempts = a.cfg.Batch.MaxAttempts
			}

			// 1) World and hooks.
			w, err := a.buildWorld(l)
			if err != nil {
				return err
			}
			r, err := render.New(a.cfg.Renderer, a.log)
			if err != nil {
				return err
			}
			rec := metrics.New()
			g := gate.New(l.Level, gate.Generate(a.cfg, w, r), gate.Check(w),
				gate.WithMaxAttempts(maxAttempts), gate.WithLogger(a.log), gate.WithRecorder(rec))

			// 2) Batch.
			req := batch.Request{Level: l.Level, Suffix: a.suffix, Count: count, Seed: seed}
			rep, err := batch.Run(cmd.Context(), g, req, batch.WithWorkers(workers), batch.WithLogger(a.log))
			if err != nil {
				return err
			}

			// 3) Persist.
			if err = store.WriteWorld(l, w); err != nil {
				return err
			}
			if err = store.WriteBatch(l, rep.Instances, rep.Labels); err != nil {
				return err
			}
			if err = rec.WriteTextfile(l.MetricsPath()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "accepted %d/%d, attempts %d, discard rate %.1f%%\n",
				rep.Accepted(), count, rep.Attempts, 100*rep.DiscardRate())
			for _, f := range rep.Failures {
				fmt.Fprintf(out, "failed %s (seed %d, %d attempts): %v\n", f.ID, f.Seed, f.Attempts, f.Err)
			}
			fmt.Fprintln(out, l.InstancesPath())
			fmt.Fprintln(out, l.LabelsPath())
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&count, "count", "n", 10, "instances to generate")
	f.Int64Var(&seed, "seed", 42, "base seed; instance seeds derive from it")
	f.IntVar(&workers, "workers", 0, "parallel workers (config batch.workers when 0)")
	f.IntVar(&maxAttempts, "max-attempts", 0, "gate attempts per instance (config batch.max_attempts when 0)")
	return cmd
}
