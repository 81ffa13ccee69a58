package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrConsumerAttached is returned when a second consumer tries to attach.
var ErrConsumerAttached = errors.New("event queue already has a consumer")

// DefaultQueueCapacity is used when a non-positive capacity is requested.
const DefaultQueueCapacity = 16

// Queue delivers one-shot events to at most one consumer.
// Events are buffered until consumed; when the buffer is full the oldest event
// is dropped. Delivered events are never replayed.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []queued[T]
	nextSeq  uint64
	capacity int
	dropped  uint64
	attached bool
	notify   chan struct{}
}

type queued[T any] struct {
	seq uint64
	ev  T
}

// NewQueue creates a queue holding up to capacity undelivered events.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue[T]{
		capacity: capacity,
		notify:   make(chan struct{}, 1),
	}
}

// Push enqueues ev. Safe for concurrent producers; never blocks.
func (q *Queue[T]) Push(ev T) {
	q.mu.Lock()
	if len(q.items) >= q.capacity {
		q.items = q.items[1:]
		q.dropped++
		slog.Warn("Event queue full, dropped oldest event",
			slog.Int("capacity", q.capacity),
			slog.Uint64("dropped_total", q.dropped))
	}
	q.items = append(q.items, queued[T]{seq: q.nextSeq, ev: ev})
	q.nextSeq++
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len returns the number of undelivered events.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns how many events were discarded because the queue was full.
func (q *Queue[T]) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Consume attaches the single consumer. Events are sent on the returned channel
// until ctx is done, at which point the channel is closed and another consumer
// may attach. An event is removed from the queue only once it has been received.
func (q *Queue[T]) Consume(ctx context.Context) (<-chan T, error) {
	q.mu.Lock()
	if q.attached {
		q.mu.Unlock()
		return nil, ErrConsumerAttached
	}
	q.attached = true
	q.mu.Unlock()

	out := make(chan T)
	go q.pump(ctx, out)
	return out, nil
}

func (q *Queue[T]) pump(ctx context.Context, out chan<- T) {
	defer func() {
		q.mu.Lock()
		q.attached = false
		q.mu.Unlock()
		close(out)
	}()

	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			select {
			case <-ctx.Done():
				return
			case <-q.notify:
				continue
			}
		}
		head := q.items[0]
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case out <- head.ev:
			q.mu.Lock()
			// A Push may have dropped the head while we were blocked.
			if len(q.items) > 0 && q.items[0].seq == head.seq {
				q.items = q.items[1:]
			}
			q.mu.Unlock()
		}
	}
}
