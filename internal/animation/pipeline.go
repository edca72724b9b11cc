package animation

import (
	"context"
	"fmt"
	"log/slog"

	"asciify/internal/fileutil"
	"asciify/internal/logging"
	"asciify/internal/pool"
	"asciify/internal/render"
	"asciify/internal/services"
	"asciify/internal/workspace"
)

// Pipeline runs animated sources through the worker pool.
type Pipeline struct {
	executor *pool.Executor
	logger   *slog.Logger
}

// NewPipeline returns a pipeline rendering through executor.
func NewPipeline(executor *pool.Executor, logger *slog.Logger) *Pipeline {
	return &Pipeline{executor: executor, logger: logging.NewComponentLogger(logger, "animation")}
}

// Run extracts src into ws, renders every frame, and writes the reassembled
// GIF to dst. Nothing is written to dst unless every frame succeeds.
func (p *Pipeline) Run(ctx context.Context, src, dst string, params render.Parameters, workers int, ws *workspace.Workspace, sink func(pool.Progress)) error {
	logger := logging.WithContext(ctx, p.logger)

	seq, err := Extract(src, ws.SourceFrame)
	if err != nil {
		return err
	}
	workers = pool.ClampWorkers(workers, seq.Len())
	logger.Info("animation extracted",
		logging.Int("frames", seq.Len()),
		logging.Int("loop_count", seq.LoopCount),
		logging.Int("workers", workers),
		logging.String(logging.FieldEventType, "animation_extracted"),
	)

	jobs := pool.NumberedJobs(seq.Len(), ws.SourceFrame, ws.OutputFrame)
	batches := pool.Partition(jobs, workers)
	completed, err := p.executor.Execute(services.WithStage(ctx, "render"), batches, params, workers, sink)
	if err != nil {
		return err
	}
	if completed != len(jobs) {
		return services.Wrap(services.ErrRender, "animation", "render", fmt.Sprintf("rendered %d of %d frames", completed, len(jobs)), nil)
	}

	outputs := make([]string, len(jobs))
	for i, job := range jobs {
		outputs[i] = job.Destination
	}
	staged := ws.Join("result.gif")
	if err := Assemble(outputs, seq.DelaysMS, seq.LoopCount, staged); err != nil {
		return err
	}
	if err := fileutil.MoveFile(staged, dst); err != nil {
		return services.Wrap(services.ErrIO, "animation", "deliver output", dst, err)
	}
	logger.Info("animation written", logging.String("destination", dst), logging.Int("frames", seq.Len()))
	return nil
}
