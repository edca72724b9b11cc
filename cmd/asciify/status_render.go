package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const statusLabelWidth = 20

func (k statusKind) String() string {
	switch k {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// statusPrinter styles status output for w. lipgloss drops colours when w is
// not a terminal, so redirected output stays plain.
type statusPrinter struct {
	header lipgloss.Style
	label  lipgloss.Style
	kinds  map[statusKind]lipgloss.Style
}

func newStatusPrinter(w io.Writer) statusPrinter {
	r := lipgloss.NewRenderer(w)
	return statusPrinter{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		label:  r.NewStyle().Width(statusLabelWidth),
		kinds: map[statusKind]lipgloss.Style{
			statusInfo:  r.NewStyle().Foreground(lipgloss.Color("39")),
			statusOK:    r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			statusWarn:  r.NewStyle().Foreground(lipgloss.Color("214")),
			statusError: r.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		},
	}
}

func (p statusPrinter) line(label string, kind statusKind, message string) string {
	tag := p.kinds[kind].Render("[" + kind.String() + "]")
	if message != "" {
		tag += " " + message
	}
	return "  " + p.label.Render(label+":") + " " + tag
}

func (p statusPrinter) section(title string) string {
	return p.header.Render(fmt.Sprintf("== %s ==", strings.TrimSpace(title)))
}

// kind renders just the coloured status word, for table cells.
func (p statusPrinter) kind(kind statusKind) string {
	return p.kinds[kind].Render(kind.String())
}
