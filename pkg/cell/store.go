package cell

import "sync"

// subscription pairs a subscriber callback with a unique identity so cancel
// functions and batch deduplication can target exactly one registration.
// Registering the same callback twice yields two independent subscriptions.
type subscription[T any] struct {
	id uint64
	fn func(T)
}

// Store is a single-value state container with subscriber fan-out.
//
// Writes replace the whole value. A write whose candidate is identical
// (by reference, see Identical) to the current value is suppressed: the
// value is not reassigned and no subscriber runs. An accepted write
// notifies every subscriber registered at the time the write began, each
// exactly once with the new value, before Set/Update returns.
//
// Subscribers run outside the store's locks, so a subscriber may re-enter
// Set on this or another store. Guarding against infinite notification
// chains is the caller's responsibility.
type Store[T any] struct {
	// value is the current state value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// subs are the registered subscribers.
	subs []subscription[T]

	// subsMu protects the subs slice.
	subsMu sync.RWMutex

	// equal overrides the default identity comparison when non-nil.
	equal func(T, T) bool
}

// New creates a store holding the given initial value. Any value is
// accepted; no validation is performed.
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value by reference. O(1), no side effects.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the current value. Subscribers are notified synchronously,
// before Set returns, iff the new value's identity differs from the old.
func (s *Store[T]) Set(value T) {
	s.replace(value)
}

// Update replaces the current value with fn(current). fn runs synchronously
// and must be pure; it receives the current value and returns the full
// replacement (no merging). If fn panics, the panic propagates to the
// caller, the stored value is unchanged, and no subscriber runs.
func (s *Store[T]) Update(fn func(T) T) {
	s.replace(fn(s.Get()))
}

// TryUpdate is Update with an explicit error path: an error return from fn
// leaves the stored value untouched, notifies nobody, and is returned to
// the caller.
func (s *Store[T]) TryUpdate(fn func(T) (T, error)) error {
	next, err := fn(s.Get())
	if err != nil {
		return err
	}
	s.replace(next)
	return nil
}

// replace performs the compare-and-assign step and fans out on change.
// The candidate is fully computed before this point, so a failed updater
// can never leave a partial write behind.
func (s *Store[T]) replace(next T) {
	s.mu.Lock()
	changed := !s.equals(s.value, next)
	if changed {
		s.value = next
	}
	s.mu.Unlock()

	if changed {
		s.notify(next)
	}
}

// Subscribe registers a subscriber and returns a cancel function that
// removes exactly that registration. Calling cancel more than once is a
// no-op. Subscribing after Destroy works normally.
func (s *Store[T]) Subscribe(fn func(T)) (cancel func()) {
	sub := subscription[T]{id: nextID(), fn: fn}

	s.subsMu.Lock()
	s.subs = append(s.subs, sub)
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()

		for i := range s.subs {
			if s.subs[i].id == sub.id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Destroy clears all subscribers unconditionally. The store remains a
// valid value container: Get and Set keep working, and new subscriptions
// succeed. Destroy is idempotent.
func (s *Store[T]) Destroy() {
	s.subsMu.Lock()
	s.subs = nil
	s.subsMu.Unlock()
}

// SubscriberCount returns the number of registered subscribers.
func (s *Store[T]) SubscriberCount() int {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	return len(s.subs)
}

// WithEquals returns the store configured with a custom change detector in
// place of reference identity. Useful for value types where identity is too
// strict, at the cost of the identity-based suppression contract.
func (s *Store[T]) WithEquals(fn func(T, T) bool) *Store[T] {
	s.equal = fn
	return s
}

// equals checks whether a write should be suppressed.
func (s *Store[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return Identical(any(a), any(b))
}

// notify fans the new value out to all subscribers. Uses copy-before-notify
// so subscribers run without any lock held and may subscribe, cancel, or
// write reentrantly. Inside a Batch the fan-out is queued instead and each
// subscriber is notified once with its store's latest value when the
// outermost batch closes.
func (s *Store[T]) notify(value T) {
	s.subsMu.RLock()
	subs := make([]subscription[T], len(s.subs))
	copy(subs, s.subs)
	s.subsMu.RUnlock()

	if batchDepth() > 0 {
		for _, sub := range subs {
			fn := sub.fn
			queuePending(sub.id, func() { fn(value) })
		}
		return
	}

	for _, sub := range subs {
		sub.fn(value)
	}
}
