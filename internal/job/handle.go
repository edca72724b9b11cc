package job

import (
	"context"
	"sync"
)

// Handle is the caller's side of a submitted job.
type Handle struct {
	id string

	mu       sync.Mutex
	queue    []Event
	terminal *Event
	notify   chan struct{}
	done     chan struct{}

	streamOnce sync.Once
	stream     chan Event
	detachOnce sync.Once
	detach     chan struct{}
}

func newHandle(id string) *Handle {
	return &Handle{
		id:     id,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
		detach: make(chan struct{}),
	}
}

// ID returns the job identifier.
func (h *Handle) ID() string { return h.id }

// push appends ev without blocking. Events after the terminal one are dropped.
func (h *Handle) push(ev Event) {
	h.mu.Lock()
	if h.terminal != nil {
		h.mu.Unlock()
		return
	}
	h.queue = append(h.queue, ev)
	if ev.Terminal() {
		terminal := ev
		h.terminal = &terminal
		close(h.done)
	}
	h.mu.Unlock()

	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Poll returns the next queued event without blocking.
func (h *Handle) Poll() (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.queue) == 0 {
		return Event{}, false
	}
	ev := h.queue[0]
	h.queue[0] = Event{}
	h.queue = h.queue[1:]
	return ev, true
}

// Events returns a channel that yields queued events in order and is closed
// after the terminal event. Use either Events or Poll, not both. A reader that
// stops before the terminal event must call Detach.
func (h *Handle) Events() <-chan Event {
	h.streamOnce.Do(func() {
		h.stream = make(chan Event)
		go h.forward()
	})
	return h.stream
}

// Detach stops delivery on the Events channel and closes it. The job keeps
// running and Wait still reports its terminal event.
func (h *Handle) Detach() {
	h.detachOnce.Do(func() { close(h.detach) })
}

func (h *Handle) forward() {
	defer close(h.stream)
	for {
		ev, ok := h.Poll()
		if !ok {
			select {
			case <-h.notify:
			case <-h.detach:
				return
			}
			continue
		}
		select {
		case h.stream <- ev:
		case <-h.detach:
			return
		}
		if ev.Terminal() {
			return
		}
	}
}

// Done is closed once the terminal event has been produced.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the job ends or ctx is done and returns the terminal
// event. Queued events are left for Poll or Events.
func (h *Handle) Wait(ctx context.Context) (Event, error) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return *h.terminal, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}
