package engine

import (
	"context"
	"sync"
)

// StateFlow holds a single value and replays it to subscribers.
// Updates are serialized; every subscriber sees the current value first and then
// later values, conflated to the latest one if it falls behind.
type StateFlow[S any] struct {
	mu     sync.Mutex
	value  S
	subs   map[uint64]chan S
	nextID uint64
}

// NewStateFlow creates a flow holding initial.
func NewStateFlow[S any](initial S) *StateFlow[S] {
	return &StateFlow[S]{
		value: initial,
		subs:  make(map[uint64]chan S),
	}
}

// Value returns the current snapshot.
func (f *StateFlow[S]) Value() S {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Update replaces the value with fn(current) and notifies subscribers.
// fn must not mutate its argument; it returns the next snapshot.
func (f *StateFlow[S]) Update(fn func(S) S) S {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.value = fn(f.value)
	for _, ch := range f.subs {
		offerLatest(ch, f.value)
	}
	return f.value
}

// TryUpdate is Update for reducers that may decline. Subscribers are notified
// only when fn reports a change.
func (f *StateFlow[S]) TryUpdate(fn func(S) (S, bool)) (S, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, changed := fn(f.value)
	if !changed {
		return f.value, false
	}
	f.value = next
	for _, ch := range f.subs {
		offerLatest(ch, f.value)
	}
	return f.value, true
}

// Subscribe returns a channel carrying the current value followed by updates.
// The channel is closed once ctx is done.
func (f *StateFlow[S]) Subscribe(ctx context.Context) <-chan S {
	return f.subscribe(ctx, nil)
}

// subscribe registers a subscriber; onDone runs after it is removed.
func (f *StateFlow[S]) subscribe(ctx context.Context, onDone func()) <-chan S {
	ch := make(chan S, 1)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	ch <- f.value
	f.mu.Unlock()

	go func() {
		<-ctx.Done()

		f.mu.Lock()
		delete(f.subs, id)
		close(ch)
		f.mu.Unlock()

		if onDone != nil {
			onDone()
		}
	}()

	return ch
}

// SubscriberCount returns the number of active subscribers.
func (f *StateFlow[S]) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// offerLatest puts v into a capacity-1 channel, replacing an unread value.
// Must be called with the flow mutex held.
func offerLatest[S any](ch chan S, v S) {
	select {
	case ch <- v:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}
	ch <- v
}
