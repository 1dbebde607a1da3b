package core

import "sync"

// State is an observable state container: a current value plus change
// notification. The original app leans on framework-managed observable
// fields; here the contract is explicit and framework-free, which is all
// the UI binding needs.
//
// Subscribers receive the latest value on a buffered channel; a slow
// subscriber only ever misses intermediate values, never the latest one.
type State[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]chan T
	next  int
}

// NewState creates a state container holding initial.
func NewState[T any](initial T) *State[T] {
	return &State[T]{
		value: initial,
		subs:  make(map[int]chan T),
	}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Subscribe registers a change listener. The returned channel immediately
// carries the current value, then every subsequent change. The cancel
// function removes the subscription.
func (s *State[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan T, 1)
	ch <- s.value
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

// set replaces the value and notifies subscribers.
func (s *State[T]) set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.notifyLocked()
}

// update atomically applies fn to the current value. When fn's second
// return is false the update is abandoned and no notification happens.
// Returns whether the update was applied.
func (s *State[T]) update(fn func(T) (T, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := fn(s.value)
	if !ok {
		return false
	}
	s.value = next
	s.notifyLocked()
	return true
}

// notifyLocked pushes the current value to every subscriber without
// blocking: a full buffer is drained so the channel always holds the
// latest value.
func (s *State[T]) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- s.value:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s.value:
			default:
			}
		}
	}
}
