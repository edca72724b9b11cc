package testsupport

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// WriteImage saves a solid w x h raster; the format follows the extension.
func WriteImage(t testing.TB, path string, w, h int, c color.Color) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := imaging.Save(imaging.New(w, h, c), path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

// GIFFrame describes one frame of a fixture animation.
type GIFFrame struct {
	Color    color.Color
	DelayMS  int
	Disposal byte
}

// WriteGIF writes an animated GIF with one solid w x h frame per entry.
func WriteGIF(t testing.TB, path string, w, h, loop int, frames ...GIFFrame) {
	t.Helper()

	anim := &gif.GIF{LoopCount: loop}
	for _, fr := range frames {
		img := image.NewPaletted(image.Rect(0, 0, w, h), palette.Plan9)
		idx := uint8(color.Palette(palette.Plan9).Index(fr.Color))
		for i := range img.Pix {
			img.Pix[i] = idx
		}
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, fr.DelayMS/10)
		anim.Disposal = append(anim.Disposal, fr.Disposal)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, anim); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
