package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"asciify/internal/render"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkspaceDir string `toml:"workspace_dir"`
	LogDir       string `toml:"log_dir"`
}

// Render contains the default rendering parameters applied when the CLI
// does not override them.
type Render struct {
	Columns     int     `toml:"columns"`
	Rotation    int     `toml:"rotation"`
	Brightness  float64 `toml:"brightness"`
	ColorMode   string  `toml:"color_mode"`
	JPEGQuality int     `toml:"jpeg_quality"`
}

// Workers contains configuration for the frame worker pool.
type Workers struct {
	Count int `toml:"count"`
	// Mode selects how batches are isolated: "process" spawns one worker
	// process per batch, "inprocess" renders batches on goroutines.
	Mode string `toml:"mode"`
}

// Tools contains the external media binaries.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Workflow contains timing knobs for job supervision.
type Workflow struct {
	PollIntervalMillis  int `toml:"poll_interval_ms"`
	StaleWorkspaceHours int `toml:"stale_workspace_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for asciify.
//
// Configuration sections by subsystem:
//   - Paths: workspace root and log directory
//   - Render: default columns, rotation, brightness, colour mode, JPEG quality
//   - Workers: pool size and isolation mode
//   - Tools: ffmpeg and ffprobe binaries
//   - Workflow: progress polling interval and stale workspace age
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Render   Render   `toml:"render"`
	Workers  Workers  `toml:"workers"`
	Tools    Tools    `toml:"tools"`
	Workflow Workflow `toml:"workflow"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/asciify/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/asciify/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("asciify.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the workspace root and log directory.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkspaceDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RenderParameters converts the render section into immutable job parameters.
func (c *Config) RenderParameters() (render.Parameters, error) {
	mode, err := render.ParseColorMode(c.Render.ColorMode)
	if err != nil {
		return render.Parameters{}, err
	}
	return render.Parameters{
		Rotation:    c.Render.Rotation,
		Columns:     c.Render.Columns,
		Brightness:  c.Render.Brightness,
		ColorMode:   mode,
		JPEGQuality: c.Render.JPEGQuality,
	}, nil
}

// InProcessWorkers reports whether batches should render on goroutines
// instead of worker processes.
func (c *Config) InProcessWorkers() bool {
	return c.Workers.Mode == WorkerModeInProcess
}

// PollInterval returns the progress polling interval.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Workflow.PollIntervalMillis) * time.Millisecond
}

// StaleWorkspaceAge returns the age after which abandoned workspaces are removed.
func (c *Config) StaleWorkspaceAge() time.Duration {
	return time.Duration(c.Workflow.StaleWorkspaceHours) * time.Hour
}

// FFmpegBinary returns the ffmpeg executable used for frame extraction and encoding.
func (c *Config) FFmpegBinary() string {
	return c.Tools.FFmpeg
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	return c.Tools.FFprobe
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultWorkspaceDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "asciify", "workspaces")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "asciify")
	}
	return filepath.Join(home, ".cache", "asciify", "workspaces")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
