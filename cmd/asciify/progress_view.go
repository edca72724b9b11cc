package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"asciify/internal/job"
)

var (
	progressTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	progressMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	progressErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	progressOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

type pollTickMsg time.Time

type progressModel struct {
	handle    *job.Handle
	interval  time.Duration
	title     string
	bar       progress.Model
	completed int
	total     int
	final     *job.Event
	detached  bool
}

func newProgressModel(handle *job.Handle, req job.Request, interval time.Duration) progressModel {
	return progressModel{
		handle:   handle,
		interval: interval,
		title:    fmt.Sprintf("%s → %s", filepath.Base(req.Source), filepath.Base(req.Destination)),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(48)),
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.tick()
}

func (m progressModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return pollTickMsg(t) })
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.detached = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > 64 {
			width = 64
		}
		if width > 10 {
			m.bar.Width = width
		}
	case pollTickMsg:
		m = m.drain()
		if m.final != nil {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

// drain consumes every queued event; the view only shows the latest state.
func (m progressModel) drain() progressModel {
	for {
		ev, ok := m.handle.Poll()
		if !ok {
			return m
		}
		if ev.Terminal() {
			final := ev
			m.final = &final
			if ev.Kind == job.EventSuccess && m.total > 0 {
				m.completed = m.total
			}
			return m
		}
		m.completed, m.total = ev.Completed, ev.Total
	}
}

func (m progressModel) View() string {
	header := progressTitleStyle.Render("asciify") + " " + m.title
	status := progressMutedStyle.Render("preparing…")
	if m.total > 0 {
		status = progressMutedStyle.Render(fmt.Sprintf("%d/%d frames", m.completed, m.total))
	}
	if m.final != nil {
		switch m.final.Kind {
		case job.EventSuccess:
			status = progressOKStyle.Render("done")
		case job.EventFailure:
			status = progressErrorStyle.Render("failed: " + m.final.Message())
		}
	}
	return header + "\n\n" + m.bar.ViewAs(percentOf(m.completed, m.total)/100) + "  " + status + "\n\n" +
		progressMutedStyle.Render("q: stop") + "\n"
}

// runProgressView shows the progress bar until the job ends. Leaving the view
// early cancels the job and waits for its terminal event.
func runProgressView(ctx context.Context, cancel context.CancelFunc, handle *job.Handle, req job.Request, interval time.Duration, in io.Reader, out io.Writer) (convertResult, error) {
	program := tea.NewProgram(newProgressModel(handle, req, interval), tea.WithInput(in), tea.WithOutput(out), tea.WithContext(ctx))
	finalModel, _ := program.Run()

	var result convertResult
	if m, ok := finalModel.(progressModel); ok {
		result.frames = m.total
		if m.final != nil {
			result.final = *m.final
			return result, nil
		}
	}
	cancel()
	ev, waitErr := handle.Wait(context.Background())
	if waitErr != nil {
		return result, waitErr
	}
	result.final = ev
	return result, nil
}
