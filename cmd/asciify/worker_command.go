package main

import (
	"github.com/spf13/cobra"

	"asciify/internal/pool"
	"asciify/internal/render"
)

// newWorkerCommand is the entry point of child render processes. It reads one
// batch request from stdin and writes the response to stdout.
func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:         pool.WorkerCommand,
		Short:       "Render one batch of frames (internal)",
		Hidden:      true,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return pool.ServeWorker(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), render.NewRenderer(nil))
		},
	}
}
