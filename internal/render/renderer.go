// Package render converts one source frame into one ASCII-art frame on disk.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"asciify/internal/ascii"
	"asciify/internal/services"
)

// Error reports a frame that could not be rendered. Path names the file at
// fault: the source for read failures, the destination for write failures.
type Error struct {
	Path   string
	Op     string
	Err    error
	marker error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both the taxonomy marker and the underlying cause.
func (e *Error) Unwrap() []error {
	return []error{e.marker, e.Err}
}

func renderError(op, path string, err error) *Error {
	return &Error{Path: path, Op: op, Err: err, marker: services.ErrRender}
}

func ioError(op, path string, err error) *Error {
	return &Error{Path: path, Op: op, Err: err, marker: services.ErrIO}
}

// Renderer applies brightness and rotation, then hands the frame to the
// ASCII capability.
type Renderer struct {
	art ascii.Renderer
}

// NewRenderer wraps art; nil selects the bundled glyph renderer.
func NewRenderer(art ascii.Renderer) *Renderer {
	if art == nil {
		art = ascii.NewGlyphRenderer()
	}
	return &Renderer{art: art}
}

// Render reads src, renders it, and writes the result to dst in the format
// implied by dst's extension.
func (r *Renderer) Render(src, dst string, params Parameters) error {
	img, err := imaging.Open(src)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return renderError("decode", src, err)
		}
		return ioError("open", src, err)
	}

	if params.Brightness != 1.0 {
		img = scaleBrightness(img, params.Brightness)
	}
	if params.Rotation != 0 {
		img = rotate(img, params.Rotation)
	}

	art, err := r.art.Render(img, ascii.Options{Columns: params.Columns, Palette: params.ColorMode.palette()})
	if err != nil {
		return renderError("ascii", src, err)
	}

	format, err := imaging.FormatFromFilename(dst)
	if err != nil {
		return renderError("encode", dst, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".asciify-*.png")
	if err != nil {
		return ioError("create temp", dst, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmp, art); err != nil {
		_ = tmp.Close()
		return ioError("write temp", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return ioError("write temp", tmpPath, err)
	}

	staged, err := imaging.Open(tmpPath)
	if err != nil {
		return ioError("reopen temp", tmpPath, err)
	}

	var opts []imaging.EncodeOption
	if format == imaging.JPEG {
		opts = append(opts, imaging.JPEGQuality(params.JPEGQuality))
	}
	if err := imaging.Save(staged, dst, opts...); err != nil {
		_ = os.Remove(dst)
		return ioError("save", dst, err)
	}
	return nil
}

func scaleBrightness(img image.Image, factor float64) *image.NRGBA {
	scale := func(v uint8) uint8 {
		return uint8(math.Min(255, math.Round(float64(v)*factor)))
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
	})
}

// rotate turns counter-clockwise; quarter turns swap the bounding box.
func rotate(img image.Image, degrees int) image.Image {
	switch degrees {
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		return imaging.Rotate(img, float64(degrees), color.Black)
	}
}
