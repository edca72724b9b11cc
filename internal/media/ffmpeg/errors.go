package ffmpeg

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"asciify/internal/services"
)

// FailureKind separates a missing binary from a failed run.
type FailureKind int

const (
	// ToolNotFound means the binary could not be started.
	ToolNotFound FailureKind = iota + 1
	// ToolRejected means the binary ran and exited non-zero.
	ToolRejected
)

func (k FailureKind) String() string {
	switch k {
	case ToolNotFound:
		return "not installed"
	case ToolRejected:
		return "rejected input"
	default:
		return "failed"
	}
}

// ToolError reports a failed ffmpeg or ffprobe invocation.
type ToolError struct {
	Tool   string
	Kind   FailureKind
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Tool, e.Kind)
	if e.Stderr != "" {
		return msg + ": " + e.Stderr
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrExternalTool}
	}
	return []error{services.ErrExternalTool, e.Err}
}

// IsNotFound reports whether err is a ToolError for a missing binary.
func IsNotFound(err error) bool {
	var te *ToolError
	return errors.As(err, &te) && te.Kind == ToolNotFound
}

const maxStderrLines = 20

func newToolError(tool string, err error, stderr []byte) *ToolError {
	kind := ToolRejected
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		kind = ToolNotFound
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		kind = ToolRejected
	}
	return &ToolError{Tool: tool, Kind: kind, Stderr: tailLines(string(stderr), maxStderrLines), Err: err}
}

func tailLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
