package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"asciify/internal/job"
	"asciify/internal/services"
)

func TestPercentOf(t *testing.T) {
	if got := percentOf(0, 0); got != 0 {
		t.Fatalf("expected 0 for unknown total, got %v", got)
	}
	if got := percentOf(1, 4); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
}

func TestProgressModelQuitsOnKey(t *testing.T) {
	m := progressModel{interval: time.Millisecond}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(progressModel).detached {
		t.Fatal("expected model to be detached")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestProgressModelViewStates(t *testing.T) {
	m := newProgressModel(nil, job.Request{Source: "/in/clip.gif", Destination: "/out/art.gif"}, time.Millisecond)
	if view := m.View(); !strings.Contains(view, "clip.gif") || !strings.Contains(view, "preparing") {
		t.Fatalf("unexpected initial view %q", view)
	}

	m.completed, m.total = 3, 12
	requireContains(t, m.View(), "3/12 frames")

	failure := job.Event{Kind: job.EventFailure, Err: services.Wrap(services.ErrRender, "render", "decode", "bad frame", errors.New("boom"))}
	m.final = &failure
	requireContains(t, m.View(), "failed:")
}
