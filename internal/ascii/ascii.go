// Package ascii turns rasters into ASCII-art rasters.
//
// The pipeline treats Renderer as a black box; GlyphRenderer is the bundled
// implementation. It is pure Go and keeps no mutable state, so one value may
// be shared by concurrent callers.
package ascii

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Palette selects how glyph colours are derived from the source.
type Palette int

const (
	// PaletteMonochrome draws white glyphs on black.
	PaletteMonochrome Palette = iota
	// PaletteANSI snaps each cell to the eight ANSI terminal colours.
	PaletteANSI
	// PaletteFull keeps each cell's average colour.
	PaletteFull
)

// Options controls a single conversion.
type Options struct {
	Columns int
	Palette Palette
}

// Renderer converts a raster into an ASCII-art raster.
type Renderer interface {
	Render(img image.Image, opts Options) (image.Image, error)
}

// ErrEmptyImage is returned for zero-sized input.
var ErrEmptyImage = errors.New("ascii: empty image")

// DefaultRamp orders glyphs from sparse to dense.
const DefaultRamp = " .:-=+*#%@"

// glyphAspect corrects for character cells being roughly twice as tall as wide.
const glyphAspect = 0.5

// GlyphRenderer draws a density ramp with a fixed bitmap face.
type GlyphRenderer struct {
	Ramp string
	Face *basicfont.Face
}

// NewGlyphRenderer returns a renderer using DefaultRamp and the 7x13 face.
func NewGlyphRenderer() *GlyphRenderer {
	return &GlyphRenderer{Ramp: DefaultRamp, Face: basicfont.Face7x13}
}

// Render implements Renderer.
func (g *GlyphRenderer) Render(img image.Image, opts Options) (image.Image, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}
	if opts.Columns <= 0 {
		return nil, fmt.Errorf("ascii: columns must be positive, got %d", opts.Columns)
	}

	ramp := []rune(g.Ramp)
	if len(ramp) == 0 {
		ramp = []rune(DefaultRamp)
	}
	face := g.Face
	if face == nil {
		face = basicfont.Face7x13
	}

	cols := min(opts.Columns, width)
	cellWidth := float64(width) / float64(cols)
	rows := max(1, int(float64(height)/cellWidth*glyphAspect+0.5))
	cellHeight := float64(height) / float64(rows)

	glyphW, glyphH := face.Advance, face.Height
	canvas := image.NewRGBA(image.Rect(0, 0, cols*glyphW, rows*glyphH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: canvas, Face: face}
	for row := range rows {
		y0 := bounds.Min.Y + int(float64(row)*cellHeight)
		y1 := bounds.Min.Y + max(int(float64(row+1)*cellHeight), int(float64(row)*cellHeight)+1)
		for col := range cols {
			x0 := bounds.Min.X + int(float64(col)*cellWidth)
			x1 := bounds.Min.X + max(int(float64(col+1)*cellWidth), int(float64(col)*cellWidth)+1)
			avg := averageColor(img, image.Rect(x0, y0, x1, y1).Intersect(bounds))

			glyph := ramp[luminanceIndex(avg, len(ramp))]
			if glyph == ' ' {
				continue
			}
			drawer.Src = image.NewUniform(glyphColor(avg, opts.Palette))
			drawer.Dot = fixed.P(col*glyphW, row*glyphH+face.Ascent)
			drawer.DrawString(string(glyph))
		}
	}
	return canvas, nil
}

func averageColor(img image.Image, rect image.Rectangle) color.RGBA {
	if rect.Empty() {
		return color.RGBA{A: 0xff}
	}
	var r, g, b, n uint64
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += uint64(cr >> 8)
			g += uint64(cg >> 8)
			b += uint64(cb >> 8)
			n++
		}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 0xff}
}

func luminanceIndex(c color.RGBA, steps int) int {
	lum := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	idx := int(lum / 255 * float64(steps-1))
	return min(max(idx, 0), steps-1)
}

func glyphColor(c color.RGBA, palette Palette) color.Color {
	switch palette {
	case PaletteFull:
		return c
	case PaletteANSI:
		return snapANSI(c)
	default:
		return color.White
	}
}

func snapANSI(c color.RGBA) color.RGBA {
	snap := func(v uint8) uint8 {
		if v >= 0x80 {
			return 0xff
		}
		return 0
	}
	return color.RGBA{R: snap(c.R), G: snap(c.G), B: snap(c.B), A: 0xff}
}
