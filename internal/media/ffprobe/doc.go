// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe and decodes its streams and format sections. Helper
// methods on Result answer the two questions the video pipeline asks: the
// source frame rate and whether an audio stream is present.
package ffprobe
