package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"asciify/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestMediaRequirementsOptional(t *testing.T) {
	reqs := MediaRequirements("ffmpeg", "/opt/bin/ffprobe")
	if len(reqs) != 2 || reqs[1].Command != "/opt/bin/ffprobe" {
		t.Fatalf("unexpected requirements %#v", reqs)
	}
	for _, r := range reqs {
		if !r.Optional {
			t.Fatalf("%s should be optional", r.Name)
		}
	}
}

const encodersOutput = `Encoders:
 V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC
 V..... png                  PNG (Portable Network Graphics) image
 A....D aac                  AAC (Advanced Audio Coding)
`

func TestCheckEncoders(t *testing.T) {
	bin := t.TempDir()
	ffmpegPath := testsupport.WriteScript(t, bin, "ffmpeg", "cat <<'EOF'\n"+encodersOutput+"EOF\n")

	status := CheckEncoders(context.Background(), ffmpegPath, "libx264")
	if !status.Available {
		t.Fatalf("expected libx264 to be found, got %#v", status)
	}

	status = CheckEncoders(context.Background(), ffmpegPath, "libx264", "libvpx-vp9")
	if status.Available || status.Detail != "missing libvpx-vp9" {
		t.Fatalf("expected vp9 to be missing, got %#v", status)
	}
}

func TestCheckEncodersMissingBinary(t *testing.T) {
	status := CheckEncoders(context.Background(), filepath.Join(t.TempDir(), "ffmpeg"))
	if status.Available || status.Detail == "" {
		t.Fatalf("expected failure detail, got %#v", status)
	}
}
