package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"asciify/internal/logging"
	"asciify/internal/media/ffmpeg"
	"asciify/internal/pool"
	"asciify/internal/render"
	"asciify/internal/services"
	"asciify/internal/testsupport"
	"asciify/internal/workspace"
)

type copyRenderer struct{}

func (copyRenderer) Render(src, dst string, _ render.Parameters) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// stubTools writes fake ffprobe/ffmpeg binaries. ffmpeg records each call in
// calls.log, writes frames frame_000001..N for extraction, and otherwise
// creates its final argument.
func stubTools(t *testing.T, probeJSON string, frames int) (bin string) {
	t.Helper()
	bin = t.TempDir()
	testsupport.WriteProbeStub(t, bin, probeJSON)
	testsupport.WriteScript(t, bin, "ffmpeg", `echo "$@" >> "`+filepath.Join(bin, "calls.log")+`"
for last; do :; done
case "$last" in
  *%06d.png)
    i=1
    while [ $i -le `+strconv.Itoa(frames)+` ]; do
      printf "frame-$i" > "$(printf "$last" $i)"
      i=$((i+1))
    done ;;
  *) echo rendered > "$last" ;;
esac
`)
	return bin
}

func newPipeline(t *testing.T, bin string) *Pipeline {
	t.Helper()
	exec := pool.NewExecutor(copyRenderer{}, &pool.InProcessLauncher{Renderer: copyRenderer{}}, logging.NewNop())
	return NewPipeline(exec, filepath.Join(bin, "ffmpeg"), filepath.Join(bin, "ffprobe"), logging.NewNop())
}

func newWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.Create(t.TempDir(), "video")
	if err != nil {
		t.Fatalf("workspace.Create: %v", err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readCalls(t *testing.T, bin string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(bin, "calls.log"))
	if err != nil {
		t.Fatalf("read calls: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestRunWithAudioRemuxes(t *testing.T) {
	bin := stubTools(t, `{"streams":[{"codec_type":"video","r_frame_rate":"25/1"},{"codec_type":"audio"}]}`, 4)
	dst := filepath.Join(t.TempDir(), "out.mp4")
	var events []pool.Progress

	err := newPipeline(t, bin).Run(context.Background(), "clip.mp4", dst, render.DefaultParameters(), 3, newWorkspace(t), func(p pool.Progress) {
		events = append(events, p)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	calls := readCalls(t, bin)
	if len(calls) != 3 {
		t.Fatalf("expected extract, encode, remux; got %q", calls)
	}
	if !strings.Contains(calls[1], "-framerate 25") {
		t.Fatalf("encode should use probed rate: %s", calls[1])
	}
	if !strings.Contains(calls[2], "-shortest") || !strings.HasSuffix(calls[2], "final.mp4") {
		t.Fatalf("unexpected remux call: %s", calls[2])
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if last := events[len(events)-1]; last.Completed != 4 || last.Total != 4 {
		t.Fatalf("final progress %+v", last)
	}
}

func TestRunWithoutAudioSkipsRemux(t *testing.T) {
	bin := stubTools(t, `{"streams":[{"codec_type":"video","r_frame_rate":"0/0","avg_frame_rate":"0/0"}]}`, 2)
	dst := filepath.Join(t.TempDir(), "out.mkv")

	if err := newPipeline(t, bin).Run(context.Background(), "clip.mkv", dst, render.DefaultParameters(), 1, newWorkspace(t), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	calls := readCalls(t, bin)
	if len(calls) != 2 {
		t.Fatalf("expected extract and encode only, got %q", calls)
	}
	if !strings.Contains(calls[1], "-framerate 30") {
		t.Fatalf("expected default frame rate, got %s", calls[1])
	}
}

func TestRunMissingToolLeavesNoOutput(t *testing.T) {
	bin := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out.mp4")
	err := newPipeline(t, bin).Run(context.Background(), "clip.mp4", dst, render.DefaultParameters(), 2, newWorkspace(t), nil)
	if !ffmpeg.IsNotFound(err) {
		t.Fatalf("expected tool-not-found, got %v", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Fatalf("destination should not exist, stat err=%v", statErr)
	}
}

func TestRunEncodeRejected(t *testing.T) {
	bin := stubTools(t, `{"streams":[{"codec_type":"video","r_frame_rate":"24/1"}]}`, 2)
	// Replace ffmpeg with one that extracts but fails to encode.
	testsupport.WriteScript(t, bin, "ffmpeg", `for last; do :; done
case "$last" in
  *%06d.png) printf a > "$(printf "$last" 1)" ;;
  *) echo "Unknown encoder 'libx264'" >&2; exit 1 ;;
esac
`)
	dst := filepath.Join(t.TempDir(), "out.mp4")
	err := newPipeline(t, bin).Run(context.Background(), "clip.mp4", dst, render.DefaultParameters(), 2, newWorkspace(t), nil)
	var te *ffmpeg.ToolError
	if !errors.As(err, &te) || te.Kind != ffmpeg.ToolRejected || !strings.Contains(te.Stderr, "Unknown encoder") {
		t.Fatalf("expected rejected tool error with stderr, got %v", err)
	}
}

func TestRunNoFramesFailsBeforeEncode(t *testing.T) {
	bin := stubTools(t, `{"streams":[{"codec_type":"video","r_frame_rate":"25/1"}]}`, 0)
	dst := filepath.Join(t.TempDir(), "out.mp4")
	var events []pool.Progress

	err := newPipeline(t, bin).Run(context.Background(), "clip.mp4", dst, render.DefaultParameters(), 2, newWorkspace(t), func(p pool.Progress) {
		events = append(events, p)
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty demux, got %v", err)
	}
	if calls := readCalls(t, bin); len(calls) != 1 {
		t.Fatalf("expected only the extract call, got %q", calls)
	}
	if len(events) != 0 {
		t.Fatalf("expected no progress, got %+v", events)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Fatalf("destination should not exist, stat err=%v", statErr)
	}
}
