package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"asciify/internal/deps"
	"asciify/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools and directory access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p := newStatusPrinter(out)

			lines := []string{
				p.section("Configuration"),
				p.line("Config file", statusInfo, ctx.configPath),
				p.line("Workspace", statusInfo, cfg.Paths.WorkspaceDir),
				p.line("Workers", statusInfo, fmt.Sprintf("%d (in-process: %s)", cfg.Workers.Count, yesNo(cfg.InProcessWorkers()))),
				p.line("Render", statusInfo, fmt.Sprintf("%d columns, %s", cfg.Render.Columns, cfg.Render.ColorMode)),
				"",
				p.section("Checks"),
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			rows := make([][]string, 0, 5)
			for _, r := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				rows = append(rows, []string{r.Name, p.kind(kind), r.Detail})
			}
			for _, s := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				rows = append(rows, []string{s.Name, p.kind(dependencyKind(s)), dependencyDetail(s)})
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))
			return nil
		},
	}
}

// dependencyKind downgrades missing optional tools to a warning: only video
// conversion needs them.
func dependencyKind(s deps.Status) statusKind {
	switch {
	case s.Available:
		return statusOK
	case s.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func dependencyDetail(s deps.Status) string {
	if s.Available {
		return s.Command
	}
	if s.Detail == "" {
		return s.Description
	}
	return s.Detail + " (" + s.Description + ")"
}
