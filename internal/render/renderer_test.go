package render

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"asciify/internal/ascii"
	"asciify/internal/services"
)

func writeImage(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := imaging.New(w, h, c)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
}

func TestRenderWritesDecodableJPEG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.jpg")
	writeImage(t, src, 40, 40, color.White)

	params := DefaultParameters()
	params.Columns = 4
	if err := NewRenderer(nil).Render(src, dst, params); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out, err := imaging.Open(dst)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Bounds().Dx() != 4*7 {
		t.Fatalf("unexpected output width %d", out.Bounds().Dx())
	}
	assertNoTempFiles(t, dir)
}

type sizeRecorder struct {
	got image.Rectangle
}

func (s *sizeRecorder) Render(img image.Image, opts ascii.Options) (image.Image, error) {
	s.got = img.Bounds()
	return img, nil
}

func TestRenderRotatesWithExpansion(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writeImage(t, src, 30, 10, color.White)

	rec := &sizeRecorder{}
	params := DefaultParameters()
	params.Rotation = 90
	if err := NewRenderer(rec).Render(src, filepath.Join(dir, "out.png"), params); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rec.got.Dx() != 10 || rec.got.Dy() != 30 {
		t.Fatalf("expected 10x30 after rotation, got %v", rec.got)
	}
}

func TestScaleBrightness(t *testing.T) {
	img := imaging.New(1, 1, color.NRGBA{R: 100, G: 200, B: 10, A: 255})
	got := scaleBrightness(img, 1.5).NRGBAAt(0, 0)
	want := color.NRGBA{R: 150, G: 255, B: 15, A: 255}
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestRenderMissingSourceIsIOError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "missing.png")
	err := NewRenderer(nil).Render(src, filepath.Join(dir, "out.png"), DefaultParameters())
	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *Error, got %T %v", err, err)
	}
	if rerr.Path != src {
		t.Fatalf("expected path %q, got %q", src, rerr.Path)
	}
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO marker, got %v", err)
	}
}

func TestRenderUndecodableSourceIsRenderError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(src, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := NewRenderer(nil).Render(src, filepath.Join(dir, "out.png"), DefaultParameters())
	if !errors.Is(err, services.ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}

type failingArt struct{}

func (failingArt) Render(image.Image, ascii.Options) (image.Image, error) {
	return nil, errors.New("boom")
}

func TestRenderCapabilityFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.png")
	writeImage(t, src, 8, 8, color.White)

	err := NewRenderer(failingArt{}).Render(src, dst, DefaultParameters())
	if !errors.Is(err, services.ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Fatalf("destination should not exist, stat err=%v", statErr)
	}
	assertNoTempFiles(t, dir)
}

func TestRenderUnsupportedDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	writeImage(t, src, 8, 8, color.White)
	err := NewRenderer(nil).Render(src, filepath.Join(dir, "out.xyz"), DefaultParameters())
	if !errors.Is(err, services.ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".asciify-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}
