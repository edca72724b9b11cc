// Package media classifies conversion sources and checks that a destination
// can hold the result.
//
// Classification happens once per job and selects the pipeline: Static
// images render directly, AnimatedSequence sources go through the animation
// pipeline, and Video sources through the ffmpeg-backed video pipeline.
package media
