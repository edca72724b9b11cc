// Package job runs one conversion on its own goroutine and reports its
// progress through a Handle.
//
// The Handle is a single-producer, single-consumer event stream: the job
// appends Progress events and exactly one terminal Success or Failure event,
// and the caller either polls (Poll) on a fixed interval or reads the Events
// channel. Appending never blocks the job, however slowly the caller reads.
package job
