// Package animation converts animated GIFs frame by frame.
//
// Extract composites every source frame onto a full canvas (honouring the
// source's own disposal methods) and writes it into the job workspace along
// with its display duration. Pipeline.Run renders those frames through the
// worker pool and Assemble rebuilds a GIF from the rendered frames in index
// order, keeping the original timing and loop count.
package animation
