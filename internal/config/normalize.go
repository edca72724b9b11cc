package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeWorkers()
	c.normalizeTools()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("ASCIIFY_WORKSPACE_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.WorkspaceDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir()
	}
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRender() {
	c.Render.ColorMode = strings.TrimSpace(c.Render.ColorMode)
	if c.Render.ColorMode == "" {
		c.Render.ColorMode = defaultColorMode
	}
	if c.Render.Brightness == 0 {
		c.Render.Brightness = defaultBrightness
	}
}

func (c *Config) normalizeWorkers() {
	c.Workers.Mode = strings.ToLower(strings.TrimSpace(c.Workers.Mode))
	switch c.Workers.Mode {
	case "", "process", "processes":
		c.Workers.Mode = WorkerModeProcess
	case "inprocess", "in-process", "goroutine", "goroutines":
		c.Workers.Mode = WorkerModeInProcess
	}
	if c.Workers.Count <= 0 {
		c.Workers.Count = Default().Workers.Count
	}
}

func (c *Config) normalizeTools() {
	if value, ok := os.LookupEnv("ASCIIFY_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFmpeg = value
	}
	if value, ok := os.LookupEnv("ASCIIFY_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFprobe = value
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.PollIntervalMillis <= 0 {
		c.Workflow.PollIntervalMillis = defaultPollIntervalMillis
	}
	if c.Workflow.StaleWorkspaceHours < 0 {
		c.Workflow.StaleWorkspaceHours = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
