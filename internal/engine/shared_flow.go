package engine

import (
	"context"
	"sync"
	"time"
)

// SharedStateFlow is a StateFlow that is active while it has subscribers.
// The first subscriber activates it and runs onStart. When the last subscriber
// leaves, the flow stays active for stopTimeout so that a quick resubscribe
// (e.g. a screen being recreated) does not run onStart again.
type SharedStateFlow[S any] struct {
	flow        *StateFlow[S]
	stopTimeout time.Duration
	onStart     func()

	mu          sync.Mutex
	subscribers int
	active      bool
	generation  uint64
	stopTimer   *time.Timer
}

// NewSharedStateFlow creates a shared flow holding initial.
func NewSharedStateFlow[S any](initial S, stopTimeout time.Duration, onStart func()) *SharedStateFlow[S] {
	return &SharedStateFlow[S]{
		flow:        NewStateFlow(initial),
		stopTimeout: stopTimeout,
		onStart:     onStart,
	}
}

// Value returns the current snapshot.
func (f *SharedStateFlow[S]) Value() S { return f.flow.Value() }

// Update applies fn to the current value. See StateFlow.Update.
func (f *SharedStateFlow[S]) Update(fn func(S) S) S { return f.flow.Update(fn) }

// TryUpdate applies fn if it reports a change. See StateFlow.TryUpdate.
func (f *SharedStateFlow[S]) TryUpdate(fn func(S) (S, bool)) (S, bool) { return f.flow.TryUpdate(fn) }

// Subscribe registers a subscriber until ctx is done.
func (f *SharedStateFlow[S]) Subscribe(ctx context.Context) <-chan S {
	f.mu.Lock()
	f.subscribers++
	f.generation++
	if f.stopTimer != nil {
		f.stopTimer.Stop()
		f.stopTimer = nil
	}
	start := !f.active
	f.active = true
	f.mu.Unlock()

	ch := f.flow.subscribe(ctx, f.release)
	if start && f.onStart != nil {
		f.onStart()
	}
	return ch
}

// Active reports whether the flow is started.
func (f *SharedStateFlow[S]) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// SubscriberCount returns the number of subscribers registered right now.
func (f *SharedStateFlow[S]) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribers
}

// Close stops a pending stop timer. Existing subscriptions end with their contexts.
func (f *SharedStateFlow[S]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopTimer != nil {
		f.stopTimer.Stop()
		f.stopTimer = nil
	}
	f.active = false
}

func (f *SharedStateFlow[S]) release() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.subscribers--
	if f.subscribers > 0 {
		return
	}
	if f.stopTimeout <= 0 {
		f.active = false
		return
	}

	gen := f.generation
	f.stopTimer = time.AfterFunc(f.stopTimeout, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		// A subscribe after the timer was armed bumps the generation.
		if f.generation == gen && f.subscribers == 0 {
			f.active = false
			f.stopTimer = nil
		}
	})
}
