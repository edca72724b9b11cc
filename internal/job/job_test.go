package job

import (
	"context"
	"errors"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"asciify/internal/logging"
	"asciify/internal/media/ffmpeg"
	"asciify/internal/pool"
	"asciify/internal/render"
	"asciify/internal/services"
	"asciify/internal/testsupport"
	"asciify/internal/workspace"
)

type failOnFrame struct {
	index int
	next  pool.FrameRenderer
}

func (f failOnFrame) Render(src, dst string, p render.Parameters) error {
	if filepath.Base(src) == workspace.FrameName(f.index) {
		return services.Wrap(services.ErrRender, "render", "frame", "injected failure", nil)
	}
	return f.next.Render(src, dst, p)
}

type harness struct {
	root   string
	runner *Runner
}

func newHarness(t *testing.T, renderer pool.FrameRenderer, binDir string) *harness {
	t.Helper()
	if renderer == nil {
		renderer = render.NewRenderer(nil)
	}
	root := filepath.Join(t.TempDir(), "workspaces")
	opts := Options{
		WorkspaceRoot: root,
		Renderer:      renderer,
		Launcher:      &pool.InProcessLauncher{Renderer: renderer},
		Logger:        logging.NewNop(),
	}
	if binDir != "" {
		opts.FFmpeg = filepath.Join(binDir, "ffmpeg")
		opts.FFprobe = filepath.Join(binDir, "ffprobe")
	}
	return &harness{root: root, runner: NewRunner(opts)}
}

func smallParams() render.Parameters {
	p := render.DefaultParameters()
	p.Columns = 4
	return p
}

// collect drains the event channel and checks the stream contract: Completed
// never decreases, exactly one terminal event, and nothing after it.
func collect(t *testing.T, h *Handle) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(30 * time.Second)
	stream := h.Events()
	for {
		select {
		case ev, ok := <-stream:
			if !ok {
				assertStream(t, events)
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for job; events so far: %+v", events)
		}
	}
}

func assertStream(t *testing.T, events []Event) {
	t.Helper()
	if len(events) == 0 {
		t.Fatal("no events received")
	}
	last := 0
	terminals := 0
	for i, ev := range events {
		if ev.Completed < last {
			t.Fatalf("completed went backwards at %d: %+v", i, events)
		}
		last = ev.Completed
		if ev.Terminal() {
			terminals++
			if i != len(events)-1 {
				t.Fatalf("events after terminal: %+v", events)
			}
		}
	}
	if terminals != 1 {
		t.Fatalf("expected exactly one terminal event, got %d: %+v", terminals, events)
	}
}

func assertNoWorkspaces(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("workspace root not empty: %v", entries)
	}
}

func TestStaticImageProducesDecodableOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	dst := filepath.Join(dir, "ascii.jpg")
	testsupport.WriteImage(t, src, 40, 30, color.RGBA{R: 200, G: 120, B: 60, A: 255})

	h := newHarness(t, nil, "")
	events := collect(t, h.runner.Submit(context.Background(), Request{
		Source: src, Destination: dst, Params: smallParams(), Workers: 4,
	}))

	final := events[len(events)-1]
	if final.Kind != EventSuccess {
		t.Fatalf("expected success, got %+v", final)
	}
	if final.Completed != 1 || final.Total != 1 {
		t.Fatalf("unexpected final counts %+v", final)
	}
	if _, err := imaging.Open(dst); err != nil {
		t.Fatalf("output does not decode: %v", err)
	}
	assertNoWorkspaces(t, h.root)
}

func TestAnimatedGIFKeepsFrameDurations(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "anim.gif")
	dst := filepath.Join(dir, "ascii.gif")
	testsupport.WriteGIF(t, src, 20, 20, 0,
		testsupport.GIFFrame{Color: color.White, DelayMS: 100},
		testsupport.GIFFrame{Color: color.RGBA{R: 0xff, A: 0xff}, DelayMS: 150},
		testsupport.GIFFrame{Color: color.RGBA{G: 0xff, A: 0xff}, DelayMS: 120},
	)

	h := newHarness(t, nil, "")
	events := collect(t, h.runner.Submit(context.Background(), Request{
		Source: src, Destination: dst, Params: smallParams(), Workers: 2,
	}))

	var progress []Event
	for _, ev := range events {
		if ev.Kind == EventProgress {
			progress = append(progress, ev)
		}
	}
	// Two workers over three frames: batches of 2 and 1.
	if len(progress) != 2 {
		t.Fatalf("expected two batch progress events, got %+v", progress)
	}
	final := events[len(events)-1]
	if final.Kind != EventSuccess || final.Completed != 3 || final.Total != 3 {
		t.Fatalf("unexpected final event %+v", final)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	wantMS := []int{100, 150, 120}
	if len(anim.Delay) != len(wantMS) {
		t.Fatalf("expected %d frames, got %d", len(wantMS), len(anim.Delay))
	}
	for i := range wantMS {
		if got := anim.Delay[i] * 10; got != wantMS[i] {
			t.Fatalf("frame %d delay %dms, want %dms", i+1, got, wantMS[i])
		}
	}
	assertNoWorkspaces(t, h.root)
}

func TestVideoToImageDestinationFailsValidation(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	testsupport.FakeVideo(t, src)
	bin := t.TempDir()
	testsupport.WriteProbeStub(t, bin, testsupport.VideoProbeJSON)

	h := newHarness(t, nil, bin)
	events := collect(t, h.runner.Submit(context.Background(), Request{
		Source: src, Destination: filepath.Join(dir, "out.png"), Params: smallParams(), Workers: 2,
	}))

	final := events[len(events)-1]
	if final.Kind != EventFailure || !errors.Is(final.Err, services.ErrValidation) {
		t.Fatalf("expected validation failure, got %+v", final)
	}
	if final.Category() != services.CategoryValidation || final.Message() == "" {
		t.Fatalf("unexpected failure presentation: %s %q", final.Category(), final.Message())
	}
	if _, err := os.Stat(h.root); !os.IsNotExist(err) {
		t.Fatalf("workspace root should never have been created, stat err=%v", err)
	}
}

func TestMissingFFmpegFailsWithToolError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mov")
	dst := filepath.Join(dir, "out.mp4")
	testsupport.FakeVideo(t, src)
	// ffprobe is present so the source classifies as video; ffmpeg is not.
	bin := t.TempDir()
	testsupport.WriteProbeStub(t, bin, testsupport.VideoProbeJSON)

	h := newHarness(t, nil, bin)
	events := collect(t, h.runner.Submit(context.Background(), Request{
		Source: src, Destination: dst, Params: smallParams(), Workers: 2,
	}))

	final := events[len(events)-1]
	if final.Kind != EventFailure {
		t.Fatalf("expected failure, got %+v", final)
	}
	if !ffmpeg.IsNotFound(final.Err) || final.Category() != services.CategoryTool {
		t.Fatalf("expected tool-not-found failure, got %v", final.Err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("no partial output expected, stat err=%v", err)
	}
	assertNoWorkspaces(t, h.root)
}

func TestFrameFailureStopsJobWithoutOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "anim.gif")
	dst := filepath.Join(dir, "out.gif")
	frames := make([]testsupport.GIFFrame, 10)
	for i := range frames {
		frames[i] = testsupport.GIFFrame{Color: color.White, DelayMS: 40}
	}
	testsupport.WriteGIF(t, src, 8, 8, 0, frames...)

	renderer := failOnFrame{index: 7, next: render.NewRenderer(nil)}
	h := newHarness(t, renderer, "")
	events := collect(t, h.runner.Submit(context.Background(), Request{
		Source: src, Destination: dst, Params: smallParams(), Workers: 3,
	}))

	final := events[len(events)-1]
	if final.Kind != EventFailure || !errors.Is(final.Err, services.ErrRender) {
		t.Fatalf("expected render failure, got %+v", final)
	}
	for _, ev := range events {
		if ev.Completed >= 10 {
			t.Fatalf("reported %d completions despite failure", ev.Completed)
		}
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("no partial output expected, stat err=%v", err)
	}
	assertNoWorkspaces(t, h.root)
}

func TestUnreadableVideoFailsValidationBeforeWorkspace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mp4")
	testsupport.WriteFile(t, src, []byte("not a movie"))
	bin := t.TempDir()
	testsupport.WriteRejectingProbeStub(t, bin)

	h := newHarness(t, nil, bin)
	events := collect(t, h.runner.Submit(context.Background(), Request{
		Source: src, Destination: filepath.Join(dir, "out.mp4"), Params: smallParams(), Workers: 2,
	}))

	final := events[len(events)-1]
	if final.Kind != EventFailure || final.Category() != services.CategoryValidation {
		t.Fatalf("expected validation failure, got %+v", final)
	}
	if _, err := os.Stat(h.root); !os.IsNotExist(err) {
		t.Fatalf("workspace root should never have been created, stat err=%v", err)
	}
}

func TestAnimatedGIFWithDefaultProcessWorkers(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "anim.gif")
	dst := filepath.Join(dir, "ascii.gif")
	frames := make([]testsupport.GIFFrame, 5)
	for i := range frames {
		frames[i] = testsupport.GIFFrame{Color: color.Gray{Y: uint8(40 * i)}, DelayMS: 60}
	}
	testsupport.WriteGIF(t, src, 12, 12, 0, frames...)

	root := filepath.Join(t.TempDir(), "workspaces")
	// No Launcher: batches go to child processes running the worker command.
	runner := NewRunner(Options{WorkspaceRoot: root, Logger: logging.NewNop()})
	events := collect(t, runner.Submit(context.Background(), Request{
		Source: src, Destination: dst, Params: smallParams(), Workers: 2,
	}))

	final := events[len(events)-1]
	if final.Kind != EventSuccess || final.Completed != 5 || final.Total != 5 {
		t.Fatalf("unexpected final event %+v", final)
	}
	var lastProgress Event
	for _, ev := range events {
		if ev.Kind == EventProgress {
			lastProgress = ev
		}
	}
	if lastProgress.Completed != 5 || lastProgress.Total != 5 {
		t.Fatalf("last progress %+v, want 5/5", lastProgress)
	}
	f, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(anim.Image) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(anim.Image))
	}
	assertNoWorkspaces(t, root)
}

func TestInvalidParametersFailBeforeClassification(t *testing.T) {
	h := newHarness(t, nil, "")
	params := smallParams()
	params.Rotation = 45
	handle := h.runner.Submit(context.Background(), Request{
		Source: "/does/not/exist.png", Destination: "/tmp/out.png", Params: params, Workers: 1,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	final, err := handle.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !errors.Is(final.Err, services.ErrValidation) {
		t.Fatalf("expected validation failure, got %v", final.Err)
	}
}
