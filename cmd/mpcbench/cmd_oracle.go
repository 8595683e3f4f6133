package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/mpcbench/core"
	"github.com/katalvlaran/mpcbench/oracle"
	"github.com/katalvlaran/mpcbench/store"
)

func (a *app) oracleCmd() *cobra.Command {
	var verify bool
	cmd := &cobra.Command{
		Use:   "oracle",
		Short: "Recompute labels for stored instances",
		Long: `Reads the stored world and instances of a level, recomputes every label
from the embedded tags and rewrites the label file. With --verify the
stored labels are compared instead and nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.layout()
			if err != nil {
				return err
			}
			w, err := store.ReadWorld(l.WorldPath())
			if err != nil {
				return err
			}
			insts, err := store.ReadInstances(l)
			if err != nil {
				return err
			}

			labels := make([]*core.Label, len(insts))
			for i, inst := range insts {
				if labels[i], err = oracle.RunInstance(w, inst); err != nil {
					return err
				}
			}
			if !verify {
				if err = store.WriteLabels(l, labels); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "labelled %d instances: %s\n", len(labels), l.LabelsPath())
				return nil
			}

			stored, err := store.ReadLabels(l)
			if err != nil {
				return err
			}
			if len(stored) != len(insts) {
				return fmt.Errorf("%d labels for %d instances: %w", len(stored), len(insts), store.ErrMismatch)
			}
			var errs []error
			for i, inst := range insts {
				if err = oracle.Verify(w, inst, stored[i]); err != nil {
					errs = append(errs, err)
				}
			}
			if len(errs) > 0 {
				return errors.Join(errs...)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "verified %d instances\n", len(insts))
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "check stored labels instead of rewriting them")
	return cmd
}
