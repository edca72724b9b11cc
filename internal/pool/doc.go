// Package pool partitions frame jobs into batches and runs them in parallel.
//
// Batches are executed either by re-launching the asciify binary as a hidden
// worker subcommand (one child process per batch) or on goroutines in the
// current process. Workers report only a completed-frame count; destination
// paths are assigned up front so no two workers ever write the same file.
package pool
