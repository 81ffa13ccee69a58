package event

import (
	"context"
	"errors"
	"testing"
	"time"
)

func next(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return ""
}

func TestQueue_BuffersUntilConsumed(t *testing.T) {
	q := NewQueue[string](4)
	q.Push("a")
	q.Push("b")

	if q.Len() != 2 {
		t.Fatalf("expected 2 buffered events, got %d", q.Len())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	if got := next(t, ch); got != "a" {
		t.Errorf("expected a, got %s", got)
	}
	if got := next(t, ch); got != "b" {
		t.Errorf("expected b, got %s", got)
	}

	q.Push("c")
	if got := next(t, ch); got != "c" {
		t.Errorf("expected c, got %s", got)
	}
}

func TestQueue_DropsOldestWhenFull(t *testing.T) {
	q := NewQueue[string](2)
	q.Push("a")
	q.Push("b")
	q.Push("c")

	if q.Dropped() != 1 {
		t.Errorf("expected 1 dropped event, got %d", q.Dropped())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := q.Consume(ctx)

	if got := next(t, ch); got != "b" {
		t.Errorf("expected oldest to be dropped, first event = %s", got)
	}
	if got := next(t, ch); got != "c" {
		t.Errorf("expected c, got %s", got)
	}
}

func TestQueue_SingleConsumer(t *testing.T) {
	q := NewQueue[string](0)

	ctx1, cancel1 := context.WithCancel(context.Background())
	ch1, err := q.Consume(ctx1)
	if err != nil {
		t.Fatalf("first Consume failed: %v", err)
	}

	if _, err := q.Consume(context.Background()); !errors.Is(err, ErrConsumerAttached) {
		t.Errorf("expected ErrConsumerAttached, got %v", err)
	}

	cancel1()
	for range ch1 {
	}

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	if _, err := q.Consume(ctx2); err != nil {
		t.Errorf("expected re-attach after detach, got %v", err)
	}
}

func TestQueue_DeliveredEventsAreNotReplayed(t *testing.T) {
	q := NewQueue[string](4)
	q.Push("once")

	ctx1, cancel1 := context.WithCancel(context.Background())
	ch1, _ := q.Consume(ctx1)
	if got := next(t, ch1); got != "once" {
		t.Fatalf("expected once, got %s", got)
	}
	cancel1()
	for range ch1 {
	}

	if q.Len() != 0 {
		t.Errorf("delivered event should be gone, Len=%d", q.Len())
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()
	ch2, _ := q.Consume(ctx2)
	for ev := range ch2 {
		t.Errorf("late consumer received stale event %q", ev)
	}
}
