package animation

import (
	"bufio"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"github.com/disintegration/imaging"

	"asciify/internal/services"
)

// Assemble reads frames in order and writes an animated GIF to dst. Every
// frame uses background disposal so it fully replaces the previous one.
func Assemble(frames []string, delaysMS []int, loopCount int, dst string) error {
	if len(frames) == 0 {
		return services.Wrap(services.ErrValidation, "animation", "assemble", "no frames to assemble", nil)
	}

	anim := &gif.GIF{LoopCount: loopCount}
	for i, path := range frames {
		img, err := imaging.Open(path)
		if err != nil {
			return services.Wrap(services.ErrIO, "animation", "reopen rendered frame", path, err)
		}
		paletted := quantize(img)
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, delayAt(delaysMS, i)/10)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)

		b := paletted.Bounds()
		anim.Config.Width = max(anim.Config.Width, b.Max.X)
		anim.Config.Height = max(anim.Config.Height, b.Max.Y)
	}

	f, err := os.Create(dst)
	if err != nil {
		return services.Wrap(services.ErrIO, "animation", "create output", dst, err)
	}
	w := bufio.NewWriter(f)
	if err := gif.EncodeAll(w, anim); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return services.Wrap(services.ErrRender, "animation", "encode gif", dst, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return services.Wrap(services.ErrIO, "animation", "write output", dst, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return services.Wrap(services.ErrIO, "animation", "close output", dst, err)
	}
	return nil
}

// quantize maps img onto its exact palette when it has at most 256 colours,
// otherwise onto Plan9 with Floyd-Steinberg dithering.
func quantize(img image.Image) *image.Paletted {
	bounds := img.Bounds()
	if exact, ok := exactPalette(img); ok {
		out := image.NewPaletted(bounds, exact)
		index := make(map[color.RGBA]uint8, len(exact))
		for i, c := range exact {
			index[c.(color.RGBA)] = uint8(i)
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				out.SetColorIndex(x, y, index[rgbaAt(img, x, y)])
			}
		}
		return out
	}

	out := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(out, bounds, img, bounds.Min)
	return out
}

func exactPalette(img image.Image) (color.Palette, bool) {
	bounds := img.Bounds()
	seen := make(map[color.RGBA]struct{}, 256)
	pal := make(color.Palette, 0, 256)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := rgbaAt(img, x, y)
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == 256 {
				return nil, false
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	return pal, true
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}
