package config

import "runtime"

const (
	defaultLogDir              = "~/.local/share/asciify/logs"
	defaultColumns             = 300
	defaultRotation            = 0
	defaultBrightness          = 1.0
	defaultColorMode           = "full"
	defaultJPEGQuality         = 95
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultPollIntervalMillis  = 100
	defaultStaleWorkspaceHours = 24
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"

	// WorkerModeProcess isolates each batch in its own worker process.
	WorkerModeProcess = "process"
	// WorkerModeInProcess renders batches on goroutines within the job process.
	WorkerModeInProcess = "inprocess"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir(),
			LogDir:       defaultLogDir,
		},
		Render: Render{
			Columns:     defaultColumns,
			Rotation:    defaultRotation,
			Brightness:  defaultBrightness,
			ColorMode:   defaultColorMode,
			JPEGQuality: defaultJPEGQuality,
		},
		Workers: Workers{
			Count: runtime.NumCPU(),
			Mode:  WorkerModeProcess,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Workflow: Workflow{
			PollIntervalMillis:  defaultPollIntervalMillis,
			StaleWorkspaceHours: defaultStaleWorkspaceHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
