package pool

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"asciify/internal/logging"
	"asciify/internal/render"
	"asciify/internal/services"
)

// Progress reports cumulative completed frames.
type Progress struct {
	Completed int
	Total     int
}

// FrameRenderer renders one frame from src to dst.
type FrameRenderer interface {
	Render(src, dst string, params render.Parameters) error
}

// Launcher runs one batch to completion and returns the number of frames
// rendered.
type Launcher interface {
	Launch(ctx context.Context, batch Batch, params render.Parameters) (int, error)
}

// Executor fans batches out across workers.
type Executor struct {
	renderer FrameRenderer
	launcher Launcher
	logger   *slog.Logger
}

// NewExecutor builds an executor. The renderer is used for sequential runs,
// the launcher for parallel ones.
func NewExecutor(renderer FrameRenderer, launcher Launcher, logger *slog.Logger) *Executor {
	if launcher == nil {
		launcher = &InProcessLauncher{Renderer: renderer}
	}
	return &Executor{
		renderer: renderer,
		launcher: launcher,
		logger:   logging.NewComponentLogger(logger, "executor"),
	}
}

// Execute renders every batch and returns the number of completed frames.
//
// With one worker or one batch, frames are rendered sequentially and sink is
// called once per frame. Otherwise up to workers batches run at once and sink
// is called once per finished batch, in completion order. The first error
// cancels the remaining workers and is returned; sink is not called after it.
func (e *Executor) Execute(ctx context.Context, batches []Batch, params render.Parameters, workers int, sink func(Progress)) (int, error) {
	if sink == nil {
		sink = func(Progress) {}
	}
	total := countFrames(batches)
	if total == 0 {
		return 0, nil
	}
	if workers <= 1 || len(batches) == 1 {
		return e.sequential(ctx, batches, params, total, sink)
	}
	return e.parallel(ctx, batches, params, workers, total, sink)
}

func (e *Executor) sequential(ctx context.Context, batches []Batch, params render.Parameters, total int, sink func(Progress)) (int, error) {
	if e.renderer == nil {
		return 0, services.Wrap(services.ErrConfiguration, "executor", "sequential", "no frame renderer configured", nil)
	}
	e.logger.Debug("rendering frames sequentially", logging.Int("frames", total))
	completed := 0
	for _, batch := range batches {
		for _, job := range batch {
			if err := ctx.Err(); err != nil {
				return completed, err
			}
			if err := e.renderer.Render(job.Source, job.Destination, params); err != nil {
				return completed, fmt.Errorf("frame %d: %w", job.Index, err)
			}
			completed++
			sink(Progress{Completed: completed, Total: total})
		}
	}
	return completed, nil
}

func (e *Executor) parallel(ctx context.Context, batches []Batch, params render.Parameters, workers, total int, sink func(Progress)) (int, error) {
	e.logger.Debug("dispatching batches",
		logging.Int("batches", len(batches)),
		logging.Int("workers", workers),
		logging.Int("frames", total),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	// Wait cancels groupCtx on success as well, so failure is tracked
	// separately from the context.
	var failed atomic.Bool
	results := make(chan int, len(batches))
	done := make(chan error, 1)
	go func() {
		for i, batch := range batches {
			number := i + 1
			group.Go(func() error {
				err := e.runBatch(groupCtx, number, batch, params, results)
				if err != nil {
					failed.Store(true)
				}
				return err
			})
		}
		done <- group.Wait()
		close(results)
	}()

	completed := 0
	for n := range results {
		if failed.Load() {
			continue
		}
		completed += n
		sink(Progress{Completed: completed, Total: total})
	}
	if err := <-done; err != nil {
		e.logger.Debug("batch execution failed", logging.Error(err), logging.Int("completed", completed))
		return completed, err
	}
	if completed != total {
		return completed, services.Wrap(services.ErrRender, "executor", "parallel",
			fmt.Sprintf("rendered %d of %d frames", completed, total), nil)
	}
	return completed, nil
}

func (e *Executor) runBatch(ctx context.Context, number int, batch Batch, params render.Parameters, results chan<- int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := e.launcher.Launch(services.WithBatch(ctx, number), batch, params)
	if err != nil {
		return fmt.Errorf("batch %d (frames %d-%d): %w", number, batch[0].Index, batch[len(batch)-1].Index, err)
	}
	if n != len(batch) {
		return services.Wrap(services.ErrRender, "executor", fmt.Sprintf("batch %d", number),
			fmt.Sprintf("worker reported %d of %d frames", n, len(batch)), nil)
	}
	results <- n
	return nil
}
