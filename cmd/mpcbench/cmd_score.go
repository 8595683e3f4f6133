package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/mpcbench/score"
	"github.com/katalvlaran/mpcbench/store"
)

func (a *app) scoreCmd() *cobra.Command {
	var (
		predictions string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score predictions against stored labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.layout()
			if err != nil {
				return err
			}
			labels, err := store.ReadLabels(l)
			if err != nil {
				return err
			}
			preds, err := score.ReadPredictions(predictions)
			if err != nil {
				return err
			}
			s, err := score.Aggregate(labels, preds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}
			for _, r := range s.Results {
				fmt.Fprintf(out, "%s\tP=%.3f R=%.3f F1=%.3f exact=%v\n", r.InstanceID, r.Precision, r.Recall, r.F1, r.ExactMatch)
			}
			fmt.Fprintf(out, "instances %d, missing %d, mean F1 %.3f, exact match %.1f%%\n",
				s.Instances, s.Missing, s.MeanF1, 100*s.ExactMatchRate)
			return nil
		},
	}
	cmd.Flags().StringVarP(&predictions, "predictions", "p", "", "predictions JSONL")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	_ = cmd.MarkFlagRequired("predictions")
	return cmd
}
