package main

import (
	"bytes"
	"strings"
	"testing"

	"asciify/internal/deps"
	"asciify/internal/testsupport"
)

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Workspace directory")
	requireContains(t, out, "Log directory")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "FFprobe")
	requireContains(t, out, "in-process: yes")
}

func TestDependencyKind(t *testing.T) {
	tests := []struct {
		status deps.Status
		want   statusKind
	}{
		{deps.Status{Available: true}, statusOK},
		{deps.Status{Optional: true}, statusWarn},
		{deps.Status{}, statusError},
	}
	for _, tt := range tests {
		if got := dependencyKind(tt.status); got != tt.want {
			t.Fatalf("dependencyKind(%+v) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusPrinterPlainForBuffers(t *testing.T) {
	var buf bytes.Buffer
	p := newStatusPrinter(&buf)
	line := p.line("FFmpeg", statusOK, "/usr/bin/ffmpeg")
	requireContains(t, line, "[OK] /usr/bin/ffmpeg")
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("expected no escape codes for a non-terminal writer, got %q", line)
	}
	if got := p.kind(statusError); got != "ERROR" {
		t.Fatalf("kind(statusError) = %q", got)
	}
}

func TestRenderTablePadsRows(t *testing.T) {
	out := renderTable([]string{"Name", "Count"}, [][]string{{"frames", "12"}, {"short"}}, withTitle("Summary"), withRightAligned(2))
	requireContains(t, out, "Summary")
	requireContains(t, out, "frames")
	requireContains(t, out, "short")
	if renderTable(nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}
