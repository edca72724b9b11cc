package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateWorkers(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		return errors.New("paths.workspace_dir must be set")
	}
	return nil
}

func (c *Config) validateRender() error {
	params, err := c.RenderParameters()
	if err != nil {
		return fmt.Errorf("render.color_mode: %w", err)
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func (c *Config) validateWorkers() error {
	if c.Workers.Count <= 0 {
		return errors.New("workers.count must be positive")
	}
	switch c.Workers.Mode {
	case WorkerModeProcess, WorkerModeInProcess:
		return nil
	default:
		return fmt.Errorf("workers.mode must be %q or %q, got %q", WorkerModeProcess, WorkerModeInProcess, c.Workers.Mode)
	}
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"workflow.poll_interval_ms": c.Workflow.PollIntervalMillis,
	}); err != nil {
		return err
	}
	if c.Workflow.StaleWorkspaceHours < 0 {
		return errors.New("workflow.stale_workspace_hours must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
