package job

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestHandlePollOrderAndTerminal(t *testing.T) {
	h := newHandle("id")
	if _, ok := h.Poll(); ok {
		t.Fatal("expected empty handle")
	}
	h.push(Event{Kind: EventProgress, Completed: 1, Total: 2})
	h.push(Event{Kind: EventProgress, Completed: 2, Total: 2})
	h.push(Event{Kind: EventSuccess, Completed: 2, Total: 2})
	h.push(Event{Kind: EventFailure, Err: errors.New("late")})

	var kinds []EventKind
	for {
		ev, ok := h.Poll()
		if !ok {
			break
		}
		kinds = append(kinds, ev.Kind)
	}
	want := []EventKind{EventProgress, EventProgress, EventSuccess}
	if len(kinds) != len(want) {
		t.Fatalf("got %v want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("got %v want %v", kinds, want)
		}
	}
	select {
	case <-h.Done():
	default:
		t.Fatal("Done should be closed after terminal event")
	}
}

func TestHandleEventsClosesAfterTerminal(t *testing.T) {
	h := newHandle("id")
	stream := h.Events()
	go func() {
		for i := 1; i <= 50; i++ {
			h.push(Event{Kind: EventProgress, Completed: i, Total: 50})
		}
		h.push(Event{Kind: EventFailure, Completed: 50, Total: 50, Err: errors.New("boom")})
	}()

	count := 0
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-stream:
			if !ok {
				if count != 51 {
					t.Fatalf("expected 51 events, got %d", count)
				}
				return
			}
			count++
		case <-timeout:
			t.Fatalf("stream not closed; received %d", count)
		}
	}
}

func TestHandleWait(t *testing.T) {
	h := newHandle("id")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := h.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	h.push(Event{Kind: EventSuccess, Completed: 1, Total: 1})
	ev, err := h.Wait(context.Background())
	if err != nil || ev.Kind != EventSuccess {
		t.Fatalf("unexpected wait result %+v %v", ev, err)
	}
	if h.ID() != "id" {
		t.Fatalf("unexpected id %q", h.ID())
	}
}

func TestHandleDetachClosesUnreadStream(t *testing.T) {
	h := newHandle("id")
	stream := h.Events()
	h.push(Event{Kind: EventProgress, Completed: 1, Total: 3})
	h.push(Event{Kind: EventProgress, Completed: 2, Total: 3})

	h.Detach()
	h.Detach()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-stream:
			if !ok {
				h.push(Event{Kind: EventSuccess, Completed: 3, Total: 3})
				ev, err := h.Wait(context.Background())
				if err != nil || ev.Kind != EventSuccess {
					t.Fatalf("Wait after Detach = %+v, %v", ev, err)
				}
				return
			}
		case <-timeout:
			t.Fatal("stream not closed after Detach")
		}
	}
}
