package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"asciify/internal/logging"
)

// FramePattern is the printf pattern used for numbered frame files.
const FramePattern = "frame_%06d.png"

// Tool runs ffmpeg in its transcode modes.
type Tool struct {
	Binary string
	logger *slog.Logger
}

// New returns a Tool for binary ("ffmpeg" when empty).
func New(binary string, logger *slog.Logger) *Tool {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Tool{Binary: binary, logger: logging.NewComponentLogger(logger, "ffmpeg")}
}

func (t *Tool) run(ctx context.Context, mode string, args ...string) error {
	full := append([]string{"-hide_banner", "-loglevel", "error", "-nostdin", "-y"}, args...)
	t.logger.Debug("ffmpeg invocation",
		logging.String("mode", mode),
		logging.String("args", strings.Join(full, " ")),
	)
	_, err := Run(ctx, t.Binary, full...)
	return err
}

// ExtractFrames demuxes every frame of src into dir as numbered PNGs and
// returns their paths in frame order. Frame timing is passed through so no
// frames are duplicated or dropped.
func (t *Tool) ExtractFrames(ctx context.Context, src, dir string) ([]string, error) {
	if err := t.run(ctx, "extract", "-i", src, "-fps_mode", "passthrough", filepath.Join(dir, FramePattern)); err != nil {
		return nil, err
	}
	frames, err := filepath.Glob(filepath.Join(dir, "frame_*.png"))
	if err != nil {
		return nil, fmt.Errorf("list extracted frames: %w", err)
	}
	sort.Strings(frames)
	return frames, nil
}

// Encode assembles the numbered PNGs in dir into a video at rate. Odd frame
// dimensions are trimmed to even values as required by yuv420p.
func (t *Tool) Encode(ctx context.Context, dir string, rate Rational, dst string) error {
	args := []string{
		"-framerate", rate.String(),
		"-i", filepath.Join(dir, FramePattern),
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
	}
	args = append(args, codecArgs(dst)...)
	args = append(args, dst)
	return t.run(ctx, "encode", args...)
}

// Remux copies the first video stream of video and the first audio stream of
// audioSrc into dst without re-encoding, stopping at the shorter stream.
func (t *Tool) Remux(ctx context.Context, video, audioSrc, dst string) error {
	return t.run(ctx, "remux",
		"-i", video,
		"-i", audioSrc,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c", "copy",
		"-shortest",
		dst,
	)
}

func codecArgs(dst string) []string {
	switch strings.ToLower(filepath.Ext(dst)) {
	case ".webm":
		return []string{"-c:v", "libvpx-vp9", "-pix_fmt", "yuv420p", "-b:v", "0", "-crf", "32"}
	default:
		return []string{"-c:v", "libx264", "-pix_fmt", "yuv420p"}
	}
}
