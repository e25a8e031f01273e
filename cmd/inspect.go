package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/alr-timing/annotation"
	"github.com/maastricht-university/alr-timing/orchestrator"
	"github.com/maastricht-university/alr-timing/store"
)

func (a *app) dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the content and token, chunk, clause and sentence layers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, _ *store.Store, p *orchestrator.Pipeline) error {
				return p.Accessor(a.conf.Labeling.DocID).WriteAnnotation(ctx, cmd.OutOrStdout())
			})
		},
	}
}

func (a *app) responsesCmd() *cobra.Command {
	var groups bool
	c := &cobra.Command{
		Use:   "responses",
		Short: "Print each clause with the responses that start inside it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, _ *store.Store, p *orchestrator.Pipeline) error {
				acc := p.Accessor(a.conf.Labeling.DocID)
				if !groups {
					return acc.WriteResponses(ctx, cmd.OutOrStdout())
				}
				g, err := acc.ResponseGroups(ctx)
				if err != nil {
					return err
				}
				annotation.WriteGroups(cmd.OutOrStdout(), g)
				return nil
			})
		},
	}
	c.Flags().BoolVar(&groups, "groups", false, "group responses by aligned text span instead")
	return c
}

func (a *app) metaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meta",
		Short: "Print the document id, speaker and topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, _ *store.Store, p *orchestrator.Pipeline) error {
				m, err := p.Accessor(a.conf.Labeling.DocID).MetaInfo(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "id: %d\nspeaker: %s\ntopic: %s\n", m.ID, m.Speaker, m.Topic)
				return nil
			})
		},
	}
}

func (a *app) idsCmd() *cobra.Command {
	var limit, offset int
	c := &cobra.Command{
		Use:   "ids",
		Short: "List document ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, func(ctx context.Context, s *store.Store, _ *orchestrator.Pipeline) error {
				ids, err := s.IDs(ctx, limit, offset)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
	c.Flags().IntVar(&limit, "limit", 10, "maximum number of ids")
	c.Flags().IntVar(&offset, "offset", 0, "ids to skip")
	return c
}
