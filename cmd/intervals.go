package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/alr-timing/annotation"
	"github.com/maastricht-university/alr-timing/orchestrator"
	"github.com/maastricht-university/alr-timing/store"
)

func (a *app) intervalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intervals",
		Short: "Print the 10 ms response onset labeling",
		Args:  cobra.NoArgs,
		RunE:  a.runIntervals,
	}
}

func (a *app) runIntervals(cmd *cobra.Command, _ []string) error {
	return a.withStore(cmd, func(ctx context.Context, _ *store.Store, p *orchestrator.Pipeline) error {
		res, err := p.Run(ctx, a.conf.Labeling.DocID, a.conf.Labeling.Listener)
		if err != nil {
			return err
		}
		p.Report(cmd.OutOrStdout(), res)
		return nil
	})
}

func (a *app) pairsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pairs",
		Short: "Print clause onset / response end pairs for the listener",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, _ *store.Store, p *orchestrator.Pipeline) error {
				pairs, err := p.Accessor(a.conf.Labeling.DocID).StartEndTimes(ctx, a.conf.Labeling.Listener)
				if err != nil {
					return err
				}
				for _, pr := range pairs {
					fmt.Fprintf(cmd.OutOrStdout(), "Start Time: %s, End Time: %s\n",
						annotation.FormatSeconds(pr.Start), annotation.FormatSeconds(pr.End))
				}
				return nil
			})
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the labeling as JSON under paths.outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, _ *store.Store, p *orchestrator.Pipeline) error {
				res, err := p.Run(ctx, a.conf.Labeling.DocID, a.conf.Labeling.Listener)
				if err != nil {
					return err
				}
				out, err := p.Export(ctx, res)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, "labels:", out.LabelsPath)
				fmt.Fprintln(w, "summary:", out.SummaryPath)
				if out.TimelinePath != "" {
					fmt.Fprintln(w, "timeline:", out.TimelinePath)
				}
				return nil
			})
		},
	}
}
