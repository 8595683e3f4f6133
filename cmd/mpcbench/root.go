package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/mpcbench/config"
	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/logging"
	"github.com/katalvlaran/mpcbench/store"
	"github.com/katalvlaran/mpcbench/world"
)

// app holds the global flags and what PersistentPreRunE derives from them.
type app struct {
	configPath string
	logMode    string
	out        string
	level      int
	suffix     string
	worldSeed  int64

	cfg *config.Config
	log *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "mpcbench",
		Short: "Scheduling-puzzle generator with a deterministic oracle",
		Long: `mpcbench synthesizes meeting-scheduling puzzles spread over calendars,
policies, threads, mail, documents and room tables, and computes the gold
answer of each puzzle from its embedded tags alone.

Typical flow:
  mpcbench generate --level 2 --count 50 --suffix dev
  mpcbench score --level 2 --suffix dev --predictions preds.jsonl`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML configuration (built-in defaults when empty)")
	f.StringVar(&a.logMode, "log", "", "log mode: dev, prod or nop (overrides the config)")
	f.StringVarP(&a.out, "out", "o", "out", "output directory")
	f.IntVarP(&a.level, "level", "l", 1, "difficulty level (1-3)")
	f.StringVar(&a.suffix, "suffix", "dev", "file name suffix")
	f.Int64Var(&a.worldSeed, "world-seed", core.DefaultSeed, "seed of the world fixture")

	root.AddCommand(a.worldCmd(), a.generateCmd(), a.oracleCmd(), a.scoreCmd())
	return root
}

func (a *app) setup(*cobra.Command, []string) error {
	var err error
	if a.configPath == "" {
		a.cfg = config.Default()
	} else if a.cfg, err = config.Load(a.configPath); err != nil {
		return err
	}
	mode := a.cfg.Logging.Mode
	if a.logMode != "" {
		mode = a.logMode
	}
	if a.log, err = logging.New(mode); err != nil {
		return err
	}
	return nil
}

func (a *app) layout() (store.Layout, error) {
	l, err := core.ParseLevel(a.level)
	if err != nil {
		return store.Layout{}, err
	}
	return store.Layout{Dir: a.out, Level: l, Suffix: a.suffix}, nil
}

// buildWorld builds the world of the selected level.
func (a *app) buildWorld(l store.Layout) (*core.World, error) {
	w, err := world.Build(a.cfg, l.Level, world.WithSeed(a.worldSeed))
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	return w, nil
}

func (a *app) worldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "world",
		Short: "Build and store the world fixture of a level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.layout()
			if err != nil {
				return err
			}
			w, err := a.buildWorld(l)
			if err != nil {
				return err
			}
			if err = store.WriteWorld(l, w); err != nil {
				return err
			}
			a.log.Info("world stored", "path", l.WorldPath(), "people", len(w.People), "rooms", len(w.Rooms))
			fmt.Fprintln(cmd.OutOrStdout(), l.WorldPath())
			return nil
		},
	}
}
