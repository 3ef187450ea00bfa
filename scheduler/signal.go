package scheduler

import (
	"context"
	"sync"
)

// Signal is a single-slot, latest-value channel. Signal overwrites any value
// that has not been taken yet, so a consumer only ever sees the most recent one.
type Signal[T any] struct {
	mu    sync.Mutex
	value T
	set   bool
	// ready holds a token while a value is pending, unless a waiter has
	// already received it. Only touched with mu held, except by receivers.
	ready chan struct{}
}

// NewSignal returns an empty Signal.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{ready: make(chan struct{}, 1)}
}

// Signal stores v, replacing any pending value, and wakes a waiter. It never blocks.
func (s *Signal[T]) Signal(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.set = true
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// TryTake consumes the pending value if there is one.
func (s *Signal[T]) TryTake() (v T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return v, false
	}
	v = s.value
	var zero T
	s.value = zero
	s.set = false
	select {
	case <-s.ready:
	default:
	}
	return v, true
}

// Wait blocks until a value is pending and consumes it.
func (s *Signal[T]) Wait(ctx context.Context) (T, error) {
	for {
		if v, ok := s.TryTake(); ok {
			return v, nil
		}
		select {
		case <-s.ready:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Ready is readable while a value is pending. A receive does not consume
// the value; follow it with TryTake.
func (s *Signal[T]) Ready() <-chan struct{} {
	return s.ready
}
