package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newHealthCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is healthy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			status, err := opts.client().Health(ctx)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), status)
		},
	}
}

func newEncodeCommand(opts *options) *cobra.Command {
	var layer int

	cmd := &cobra.Command{
		Use:   "encode <text>...",
		Short: "Encode text into sparse feature activations",
		Long:  "Encode text into sparse feature activations. Multiple arguments are joined with spaces.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var layerArg *int
			if cmd.Flags().Changed("layer") {
				layerArg = &layer
			}

			result, err := opts.client().Encode(ctx, strings.Join(args, " "), layerArg)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVar(&layer, "layer", 0, "Model layer to report (server default when unset)")
	return cmd
}

func newFeatureCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "feature <id>",
		Short: "Describe a single feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid feature ID %q", args[0])
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			metadata, err := opts.client().Feature(ctx, id)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), metadata)
		},
	}
}

func newSearchCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the feature catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			var limitArg *int
			if cmd.Flags().Changed("limit") {
				limitArg = &limit
			}

			result, err := opts.client().Search(ctx, strings.Join(args, " "), limitArg)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (server default when unset)")
	return cmd
}
