package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// FakeVideo writes a file that carries an MP4 container signature but no
// decodable streams.
func FakeVideo(t testing.TB, path string) {
	t.Helper()
	WriteFile(t, path, []byte("\x00\x00\x00\x18ftypisom"))
}
