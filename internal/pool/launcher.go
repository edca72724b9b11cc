package pool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"asciify/internal/render"
	"asciify/internal/services"
)

// WorkerCommand is the hidden subcommand that serves one batch.
const WorkerCommand = "worker"

// WorkerRequest is written to a worker's stdin.
type WorkerRequest struct {
	Params render.Parameters `json:"params"`
	Jobs   Batch             `json:"jobs"`
}

// WorkerResponse is read from a worker's stdout.
type WorkerResponse struct {
	Completed int               `json:"completed"`
	Error     string            `json:"error,omitempty"`
	Category  services.Category `json:"category,omitempty"`
}

// InProcessLauncher renders a batch on the calling goroutine. Safe only with
// re-entrant renderers such as the bundled glyph renderer.
type InProcessLauncher struct {
	Renderer FrameRenderer
}

// Launch implements Launcher.
func (l *InProcessLauncher) Launch(ctx context.Context, batch Batch, params render.Parameters) (int, error) {
	if l == nil || l.Renderer == nil {
		return 0, services.Wrap(services.ErrConfiguration, "executor", "in-process launch", "no frame renderer configured", nil)
	}
	return renderBatch(ctx, l.Renderer, batch, params)
}

// ProcessLauncher runs each batch in a child asciify process.
type ProcessLauncher struct {
	// Executable defaults to the running binary.
	Executable string
	// Args defaults to the worker subcommand.
	Args []string
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// Launch implements Launcher. Cancelling ctx kills the child.
func (l *ProcessLauncher) Launch(ctx context.Context, batch Batch, params render.Parameters) (int, error) {
	exe := l.Executable
	if exe == "" {
		self, err := os.Executable()
		if err != nil {
			return 0, services.Wrap(services.ErrConfiguration, "executor", "locate worker binary", "", err)
		}
		exe = self
	}
	args := l.Args
	if args == nil {
		args = []string{WorkerCommand}
	}

	payload, err := json.Marshal(WorkerRequest{Params: params, Jobs: batch})
	if err != nil {
		return 0, services.Wrap(services.ErrRender, "executor", "encode worker request", "", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second
	if l.Env != nil {
		cmd.Env = l.Env
	}
	configureWorkerProcess(cmd)

	runErr := cmd.Run()

	var resp WorkerResponse
	decodeErr := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp)
	switch {
	case decodeErr == nil && resp.Error != "":
		return resp.Completed, services.Wrap(services.MarkerFor(resp.Category), "worker", "", resp.Error, nil)
	case runErr != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "worker exited abnormally"
		}
		return 0, services.Wrap(services.ErrRender, "worker", "run", detail, runErr)
	case decodeErr != nil:
		return 0, services.Wrap(services.ErrRender, "worker", "decode response",
			fmt.Sprintf("unexpected worker output %q", truncate(stdout.String(), 200)), decodeErr)
	}
	return resp.Completed, nil
}

// ServeWorker is the worker side of the protocol: it reads one request from
// r, renders the batch, and writes a response to w. A render failure is
// reported both in the response and as the returned error.
func ServeWorker(ctx context.Context, r io.Reader, w io.Writer, renderer FrameRenderer) error {
	var req WorkerRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		err = services.Wrap(services.ErrRender, "worker", "decode request", "", err)
		_ = json.NewEncoder(w).Encode(WorkerResponse{Error: err.Error(), Category: services.Categorize(err)})
		return err
	}

	completed, err := renderBatch(ctx, renderer, req.Jobs, req.Params)
	resp := WorkerResponse{Completed: completed}
	if err != nil {
		resp.Error = err.Error()
		resp.Category = services.Categorize(err)
	}
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil && err == nil {
		return fmt.Errorf("write worker response: %w", encErr)
	}
	return err
}

func renderBatch(ctx context.Context, renderer FrameRenderer, batch Batch, params render.Parameters) (int, error) {
	completed := 0
	for _, job := range batch {
		if err := ctx.Err(); err != nil {
			return completed, err
		}
		if err := renderer.Render(job.Source, job.Destination, params); err != nil {
			return completed, fmt.Errorf("frame %d: %w", job.Index, err)
		}
		completed++
	}
	return completed, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
