package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"asciify/internal/media/ffmpeg"
	"asciify/internal/media/ffprobe"
	"asciify/internal/services"
)

// Kind is the pipeline a source is routed to.
type Kind int

const (
	Static Kind = iota + 1
	AnimatedSequence
	Video
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case AnimatedSequence:
		return "animated"
	case Video:
		return "video"
	default:
		return "unknown"
	}
}

var (
	videoExtensions      = []string{".mp4", ".mov", ".mkv", ".avi", ".webm", ".m4v", ".wmv", ".flv", ".mpg", ".mpeg", ".ts"}
	imageExtensions      = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff"}
	animationExtensions  = []string{".gif"}
	errUnsupportedSource = errors.New("unsupported source format")
)

// Classify inspects the source. Decodable images are Static unless they are
// GIFs with more than one frame. Anything else is handed to ffprobe and is
// Video only when the container carries at least one video stream. A missing
// ffprobe is returned as a tool error; a file ffprobe cannot read is a
// validation error.
func Classify(ctx context.Context, path, ffprobeBinary string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, services.Wrap(services.ErrIO, "dispatch", "open source", path, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	_, format, err := image.DecodeConfig(reader)
	if err == nil {
		if format != "gif" {
			return Static, nil
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return 0, services.Wrap(services.ErrIO, "dispatch", "rewind source", path, err)
		}
		frames, err := gifFrameCount(f)
		if err != nil {
			return 0, services.Wrap(services.ErrValidation, "dispatch", "read gif", path, err)
		}
		if frames > 1 {
			return AnimatedSequence, nil
		}
		return Static, nil
	}
	return probeVideo(ctx, path, ffprobeBinary)
}

func probeVideo(ctx context.Context, path, ffprobeBinary string) (Kind, error) {
	result, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
	if err != nil {
		if ffmpeg.IsNotFound(err) {
			return 0, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, services.Wrap(services.ErrValidation, "dispatch", "classify",
			fmt.Sprintf("%s is neither a supported image nor a readable media container", path), errors.Join(errUnsupportedSource, err))
	}
	if strings.TrimSpace(result.Format.FormatName) == "" || result.VideoStreamCount() == 0 {
		return 0, services.Wrap(services.ErrValidation, "dispatch", "classify",
			fmt.Sprintf("%s has no video stream", path), errUnsupportedSource)
	}
	return Video, nil
}

func gifFrameCount(r io.Reader) (int, error) {
	anim, err := gif.DecodeAll(bufio.NewReader(r))
	if err != nil {
		return 0, err
	}
	return len(anim.Image), nil
}

// ValidateDestination checks that dst's extension can hold output of kind.
// It runs before any workspace or worker is allocated.
func ValidateDestination(kind Kind, dst string) error {
	var allowed []string
	switch kind {
	case Static:
		allowed = imageExtensions
	case AnimatedSequence:
		allowed = animationExtensions
	case Video:
		allowed = videoExtensions
	default:
		return services.Wrap(services.ErrValidation, "dispatch", "validate destination", fmt.Sprintf("unknown media kind %d", int(kind)), nil)
	}
	if strings.TrimSpace(dst) == "" {
		return services.Wrap(services.ErrValidation, "dispatch", "validate destination", "destination path is empty", nil)
	}
	if !hasExtension(dst, allowed) {
		return services.Wrap(services.ErrValidation, "dispatch", "validate destination",
			fmt.Sprintf("%s output must use one of %s (got %q)", kind, strings.Join(allowed, ", "), filepath.Ext(dst)), nil)
	}
	return nil
}

func hasExtension(path string, allowed []string) bool {
	return slices.Contains(allowed, strings.ToLower(filepath.Ext(path)))
}
