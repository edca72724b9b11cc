// Package ffmpeg runs the ffmpeg suite as child processes.
//
// Every invocation is a single blocking call with captured output and no
// internal timeout. Failures are reported as *ToolError, which separates a
// missing binary from one that ran and rejected its input.
//
// Tool wraps the three transcode modes the video pipeline needs:
// ExtractFrames, Encode, and Remux.
package ffmpeg
