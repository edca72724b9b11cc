package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"asciify/internal/workspace"
)

func newWorkspaceCommand(ctx *commandContext) *cobra.Command {
	workspaceCmd := &cobra.Command{
		Use:   "workspace",
		Short: "Workspace maintenance",
	}
	workspaceCmd.AddCommand(newWorkspaceCleanCommand(ctx))
	return workspaceCmd
}

func newWorkspaceCleanCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove workspaces left behind by interrupted jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			maxAge := cfg.StaleWorkspaceAge()
			switch {
			case all:
				maxAge = 0
			case maxAge == 0:
				fmt.Fprintln(cmd.OutOrStdout(), "Stale workspace cleanup is disabled (stale_workspace_hours = 0); use --all to remove every unlocked workspace")
				return nil
			}
			result := workspace.CleanStale(cmd.Context(), cfg.Paths.WorkspaceDir, maxAge, logger)

			out := cmd.OutOrStdout()
			for _, path := range result.Removed {
				fmt.Fprintf(out, "Removed %s\n", path)
			}
			for _, path := range result.Skipped {
				fmt.Fprintf(out, "Skipped %s (in use)\n", path)
			}
			for _, e := range result.Errors {
				fmt.Fprintf(out, "Failed %s: %v\n", e.Path, e.Error)
			}
			fmt.Fprintf(out, "Removed %d workspace(s)\n", len(result.Removed))
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d workspace(s) could not be removed", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Remove every unlocked workspace regardless of age")
	return cmd
}
