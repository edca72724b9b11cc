package job

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"asciify/internal/animation"
	"asciify/internal/logging"
	"asciify/internal/media"
	"asciify/internal/pool"
	"asciify/internal/render"
	"asciify/internal/services"
	"asciify/internal/video"
	"asciify/internal/workspace"
)

// Request is everything a job needs; nothing is read from ambient state.
type Request struct {
	Source      string
	Destination string
	Params      render.Parameters
	Workers     int
}

// Options wires a Runner to its collaborators.
type Options struct {
	WorkspaceRoot string
	// Renderer renders single frames; defaults to the bundled renderer.
	Renderer pool.FrameRenderer
	// Launcher runs batches in parallel; defaults to child worker processes.
	Launcher pool.Launcher
	FFmpeg   string
	FFprobe  string
	Logger   *slog.Logger
}

// Runner executes conversion jobs.
type Runner struct {
	root      string
	renderer  pool.FrameRenderer
	ffprobe   string
	animation *animation.Pipeline
	video     *video.Pipeline
	logger    *slog.Logger
}

// NewRunner builds a runner from opts.
func NewRunner(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewRenderer(nil)
	}
	launcher := opts.Launcher
	if launcher == nil {
		launcher = &pool.ProcessLauncher{}
	}
	executor := pool.NewExecutor(renderer, launcher, logger)
	return &Runner{
		root:      opts.WorkspaceRoot,
		renderer:  renderer,
		ffprobe:   opts.FFprobe,
		animation: animation.NewPipeline(executor, logger),
		video:     video.NewPipeline(executor, opts.FFmpeg, opts.FFprobe, logger),
		logger:    logging.NewComponentLogger(logger, "job"),
	}
}

// Submit starts req on its own goroutine and returns immediately.
func (r *Runner) Submit(ctx context.Context, req Request) *Handle {
	h := newHandle(workspace.NewJobID())
	go r.run(ctx, h, req)
	return h
}

func (r *Runner) run(ctx context.Context, h *Handle, req Request) {
	ctx = services.WithJobID(ctx, h.ID())
	logger := logging.WithContext(ctx, r.logger)
	started := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			err := services.Wrap(services.ErrRender, "job", "panic", fmt.Sprint(rec), nil)
			logging.ErrorWithContext(logger, "job panicked", "job_panic",
				logging.Error(err),
				logging.String("stack", string(debug.Stack())),
			)
			h.push(Event{Kind: EventFailure, Err: err})
		}
	}()

	progress := &progressTracker{handle: h}
	err := r.execute(ctx, h.ID(), req, progress)
	if err != nil {
		logging.ErrorWithContext(logger, "job failed", "job_failed",
			logging.Error(err),
			logging.String("category", string(services.Categorize(err))),
			logging.Int("completed", progress.completed),
			logging.Duration("elapsed", time.Since(started)),
		)
		h.push(Event{Kind: EventFailure, Completed: progress.completed, Total: progress.total, Err: err})
		return
	}
	logger.Info("job completed",
		logging.String("destination", req.Destination),
		logging.Int("frames", progress.total),
		logging.Duration("elapsed", time.Since(started)),
		logging.String(logging.FieldEventType, "job_completed"),
	)
	h.push(Event{Kind: EventSuccess, Completed: progress.completed, Total: progress.total})
}

func (r *Runner) execute(ctx context.Context, jobID string, req Request, progress *progressTracker) error {
	if err := req.Params.Validate(); err != nil {
		return err
	}
	kind, err := media.Classify(ctx, req.Source, r.ffprobe)
	if err != nil {
		return err
	}
	if err := media.ValidateDestination(kind, req.Destination); err != nil {
		return err
	}
	ctx = services.WithMediaKind(ctx, kind.String())
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("job started",
		logging.String("source", req.Source),
		logging.String("destination", req.Destination),
		logging.String("color_mode", req.Params.ColorMode.String()),
		logging.Int("columns", req.Params.Columns),
		logging.String(logging.FieldEventType, "job_started"),
	)

	if kind == media.Static {
		progress.total = 1
		if err := r.renderer.Render(req.Source, req.Destination, req.Params); err != nil {
			return err
		}
		progress.sink(pool.Progress{Completed: 1, Total: 1})
		return nil
	}

	ws, err := workspace.Create(r.root, jobID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			logging.WarnWithContext(logger, "workspace cleanup failed", "workspace_cleanup_failed",
				logging.String("path", ws.Path),
				logging.Error(cerr),
				logging.String(logging.FieldErrorHint, "run asciify workspace clean"),
				logging.String(logging.FieldImpact, "intermediate frames left on disk"),
			)
		}
	}()

	switch kind {
	case media.AnimatedSequence:
		return r.animation.Run(ctx, req.Source, req.Destination, req.Params, req.Workers, ws, progress.sink)
	default:
		return r.video.Run(ctx, req.Source, req.Destination, req.Params, req.Workers, ws, progress.sink)
	}
}

// progressTracker forwards pool progress to the handle, keeping Completed
// monotonic.
type progressTracker struct {
	handle    *Handle
	completed int
	total     int
}

func (p *progressTracker) sink(ev pool.Progress) {
	if ev.Completed < p.completed {
		return
	}
	p.completed = ev.Completed
	p.total = ev.Total
	p.handle.push(Event{Kind: EventProgress, Completed: ev.Completed, Total: ev.Total})
}
