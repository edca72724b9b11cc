package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"asciify/internal/config"
	"asciify/internal/job"
	"asciify/internal/logging"
	"asciify/internal/pool"
	"asciify/internal/preflight"
	"asciify/internal/render"
	"asciify/internal/workspace"
)

type convertOptions struct {
	columns    int
	rotation   int
	brightness float64
	color      string
	quality    int
	workers    int
	inProcess  bool
	noTUI      bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert SOURCE DESTINATION",
		Short: "Convert an image, animated GIF, or video into ASCII art",
		Long: "Convert renders SOURCE as ASCII art and writes the result to DESTINATION.\n" +
			"Static images are rendered directly, animated GIFs frame by frame, and\n" +
			"videos through ffmpeg with their audio track copied across.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			params, err := opts.parameters(cmd, cfg)
			if err != nil {
				return err
			}

			interactive := !opts.noTUI && isTerminal(cmd.OutOrStdout())
			logger, err := ctx.logger(interactive)
			if err != nil {
				return err
			}

			if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
				return fmt.Errorf("%s: %s", failed[0].Name, failed[0].Detail)
			}
			if age := cfg.StaleWorkspaceAge(); age > 0 {
				workspace.CleanStale(cmd.Context(), cfg.Paths.WorkspaceDir, age, logger)
			}

			renderer := render.NewRenderer(nil)
			var launcher pool.Launcher = &pool.ProcessLauncher{}
			if opts.inProcess || cfg.InProcessWorkers() {
				launcher = &pool.InProcessLauncher{Renderer: renderer}
			}
			runner := job.NewRunner(job.Options{
				WorkspaceRoot: cfg.Paths.WorkspaceDir,
				Renderer:      renderer,
				Launcher:      launcher,
				FFmpeg:        cfg.FFmpegBinary(),
				FFprobe:       cfg.FFprobeBinary(),
				Logger:        logger,
			})

			workers := cfg.Workers.Count
			if cmd.Flags().Changed("workers") {
				workers = opts.workers
			}
			req := job.Request{
				Source:      args[0],
				Destination: args[1],
				Params:      params,
				Workers:     workers,
			}

			jobCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			started := time.Now()
			handle := runner.Submit(jobCtx, req)

			var result convertResult
			if interactive {
				result, err = runProgressView(jobCtx, cancel, handle, req, cfg.PollInterval(), cmd.InOrStdin(), cmd.OutOrStdout())
			} else {
				result, err = pollJob(jobCtx, handle, cfg.PollInterval(), logger)
			}
			if err != nil {
				return err
			}
			result.elapsed = time.Since(started)
			return reportResult(cmd.OutOrStdout(), handle.ID(), req, result)
		},
	}

	defaults := render.DefaultParameters()
	cmd.Flags().IntVar(&opts.columns, "columns", defaults.Columns, "Characters per output row")
	cmd.Flags().IntVar(&opts.rotation, "rotate", defaults.Rotation, "Counter-clockwise rotation in degrees (0, 90, 180, 270)")
	cmd.Flags().Float64Var(&opts.brightness, "brightness", defaults.Brightness, "Brightness multiplier applied before rendering")
	cmd.Flags().StringVar(&opts.color, "color", defaults.ColorMode.String(), "Colour mode (monochrome, limited, full)")
	cmd.Flags().IntVar(&opts.quality, "quality", defaults.JPEGQuality, "JPEG quality for .jpg destinations (1-100)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Parallel render workers (defaults to config)")
	cmd.Flags().BoolVar(&opts.inProcess, "inprocess", false, "Render batches in goroutines instead of worker processes")
	cmd.Flags().BoolVar(&opts.noTUI, "no-tui", false, "Log progress instead of showing the interactive progress bar")
	return cmd
}

// parameters starts from the configured render defaults and applies only the
// flags the user actually set.
func (o convertOptions) parameters(cmd *cobra.Command, cfg *config.Config) (render.Parameters, error) {
	params, err := cfg.RenderParameters()
	if err != nil {
		return render.Parameters{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("columns") {
		params.Columns = o.columns
	}
	if flags.Changed("rotate") {
		params.Rotation = o.rotation
	}
	if flags.Changed("brightness") {
		params.Brightness = o.brightness
	}
	if flags.Changed("quality") {
		params.JPEGQuality = o.quality
	}
	if flags.Changed("color") {
		mode, err := render.ParseColorMode(o.color)
		if err != nil {
			return render.Parameters{}, err
		}
		params.ColorMode = mode
	}
	return params, nil
}

type convertResult struct {
	final   job.Event
	frames  int
	elapsed time.Duration
}

// pollJob drains the handle every interval, logging sampled progress, until
// the terminal event arrives.
func pollJob(ctx context.Context, handle *job.Handle, interval time.Duration, logger *slog.Logger) (convertResult, error) {
	sampler := logging.NewProgressSampler(10)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var result convertResult
	for {
		for {
			ev, ok := handle.Poll()
			if !ok {
				break
			}
			if ev.Terminal() {
				result.final = ev
				return result, nil
			}
			result.frames = ev.Total
			if percent, ok := sampler.Sample(ev.Completed, ev.Total); ok {
				logger.Info("render progress",
					logging.String(logging.FieldEventType, "job_progress"),
					logging.Frames(ev.Completed, ev.Total),
					logging.String("percent", strconv.FormatFloat(percent, 'f', 0, 64)+"%"),
				)
			}
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			// The runner still emits a terminal event after cancellation;
			// wait for it so the workspace is removed before exiting.
			ev, err := handle.Wait(context.Background())
			if err != nil {
				return result, err
			}
			result.final = ev
			return result, nil
		}
	}
}

func percentOf(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func reportResult(out io.Writer, jobID string, req job.Request, result convertResult) error {
	if result.final.Kind == job.EventFailure {
		return fmt.Errorf("convert %s failed (%s): %s", req.Source, result.final.Category(), result.final.Message())
	}
	frames := result.frames
	if result.final.Total > 0 {
		frames = result.final.Total
	}
	rows := [][]string{
		{"Job", jobID},
		{"Source", req.Source},
		{"Destination", req.Destination},
		{"Frames", strconv.Itoa(frames)},
		{"Elapsed", result.elapsed.Round(time.Millisecond).String()},
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, withTitle("Conversion complete")))
	fmt.Fprintf(out, "Wrote %s\n", strings.TrimSpace(req.Destination))
	return nil
}
