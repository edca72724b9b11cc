// Package video converts video files frame by frame.
//
// A run probes the source with ffprobe, demuxes every frame into the job
// workspace with ffmpeg, renders the frames through the worker pool, encodes
// the rendered frames at the probed frame rate and, when the source has
// audio, remuxes the original audio track onto the new video.
package video

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"asciify/internal/fileutil"
	"asciify/internal/logging"
	"asciify/internal/media/ffmpeg"
	"asciify/internal/media/ffprobe"
	"asciify/internal/pool"
	"asciify/internal/render"
	"asciify/internal/services"
	"asciify/internal/workspace"
)

// Pipeline runs video sources through ffmpeg and the worker pool.
type Pipeline struct {
	executor      *pool.Executor
	ffmpeg        *ffmpeg.Tool
	ffprobeBinary string
	logger        *slog.Logger
}

// NewPipeline wires the pipeline to its tools.
func NewPipeline(executor *pool.Executor, ffmpegBinary, ffprobeBinary string, logger *slog.Logger) *Pipeline {
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	return &Pipeline{
		executor:      executor,
		ffmpeg:        ffmpeg.New(ffmpegBinary, logger),
		ffprobeBinary: ffprobeBinary,
		logger:        logging.NewComponentLogger(logger, "video"),
	}
}

// Probe reports the facts the pipeline needs about a source.
type Probe struct {
	FrameRate ffmpeg.Rational
	HasAudio  bool
}

// Inspect runs ffprobe against src.
func (p *Pipeline) Inspect(ctx context.Context, src string) (Probe, error) {
	result, err := ffprobe.Inspect(ctx, p.ffprobeBinary, src)
	if err != nil {
		return Probe{}, err
	}
	return Probe{FrameRate: result.FrameRate(), HasAudio: result.HasAudio()}, nil
}

// Run converts src into dst using ws for intermediate files. dst is only
// written once encoding (and remuxing, if needed) has succeeded.
func (p *Pipeline) Run(ctx context.Context, src, dst string, params render.Parameters, workers int, ws *workspace.Workspace, sink func(pool.Progress)) error {
	logger := logging.WithContext(ctx, p.logger)

	probe, err := p.Inspect(services.WithStage(ctx, "probe"), src)
	if err != nil {
		return err
	}

	frames, err := p.ffmpeg.ExtractFrames(services.WithStage(ctx, "extract"), src, ws.SourceDir())
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return services.Wrap(services.ErrValidation, "video", "extract", "source produced no frames", nil)
	}
	workers = pool.ClampWorkers(workers, len(frames))
	logger.Info("video frames extracted",
		logging.Int("frames", len(frames)),
		logging.String("frame_rate", probe.FrameRate.String()),
		logging.Bool("audio", probe.HasAudio),
		logging.Int("workers", workers),
		logging.String(logging.FieldEventType, "video_extracted"),
	)

	jobs := pool.NumberedJobs(len(frames), func(i int) string { return frames[i-1] }, ws.OutputFrame)
	completed, err := p.executor.Execute(services.WithStage(ctx, "render"), pool.Partition(jobs, workers), params, workers, sink)
	if err != nil {
		return err
	}
	if completed != len(jobs) {
		return services.Wrap(services.ErrRender, "video", "render", fmt.Sprintf("rendered %d of %d frames", completed, len(jobs)), nil)
	}

	ext := strings.ToLower(filepath.Ext(dst))
	encoded := ws.Join("video" + ext)
	if err := p.ffmpeg.Encode(services.WithStage(ctx, "encode"), ws.OutputDir(), probe.FrameRate, encoded); err != nil {
		return err
	}

	final := encoded
	if probe.HasAudio {
		final = ws.Join("final" + ext)
		if err := p.ffmpeg.Remux(services.WithStage(ctx, "remux"), encoded, src, final); err != nil {
			return err
		}
	}

	if err := fileutil.MoveFile(final, dst); err != nil {
		return services.Wrap(services.ErrIO, "video", "deliver output", dst, err)
	}
	logger.Info("video written", logging.String("destination", dst), logging.Int("frames", len(frames)))
	return nil
}
