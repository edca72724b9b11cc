package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
)

// Run executes binary with args and returns its stdout. Stderr is attached to
// the ToolError on failure.
func Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	binary = strings.TrimSpace(binary)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, newToolError(filepath.Base(binary), err, stderr.Bytes())
	}
	return stdout.Bytes(), nil
}
