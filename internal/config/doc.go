// Package config loads, normalizes, and validates asciify configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ASCIIFY_WORKSPACE_DIR and ASCIIFY_FFMPEG. The Config type centralizes every
// knob the CLI and job runner need: render defaults, worker pool sizing,
// external tool binaries, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
