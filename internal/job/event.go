package job

import (
	"fmt"

	"asciify/internal/services"
)

// EventKind identifies an event.
type EventKind int

const (
	EventProgress EventKind = iota + 1
	EventSuccess
	EventFailure
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventSuccess:
		return "success"
	case EventFailure:
		return "failure"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one message from a running job. Completed never decreases within
// a job.
type Event struct {
	Kind      EventKind
	Completed int
	Total     int
	Err       error
}

// Terminal reports whether the event ends the job.
func (e Event) Terminal() bool {
	return e.Kind == EventSuccess || e.Kind == EventFailure
}

// Message is the user-facing failure text; empty for non-failures.
func (e Event) Message() string {
	if e.Kind != EventFailure || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Category classifies a failure for display.
func (e Event) Category() services.Category {
	return services.Categorize(e.Err)
}
