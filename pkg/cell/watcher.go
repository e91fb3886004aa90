package cell

import "sync"

// Watcher couples a selector evaluation to an external re-render signal.
//
// A watcher subscribes to its store exactly once, when created by Observe,
// and unsubscribes when Stop is called. While subscribed, each accepted
// store write re-evaluates the newest selector against the new state; the
// signal fires exactly once per write whose selected value's identity
// differs from the previously observed one.
//
// The caller's render pass reads through Value, which always evaluates the
// selector eagerly against the current state. Passing a new selector to
// Value supersedes the old one for all future comparisons.
type Watcher[S, R any] struct {
	store  *Store[S]
	signal func()

	mu     sync.Mutex
	sel    func(S) R
	last   R
	primed bool
	cancel func()
}

// Observe creates a watcher bound to sel and subscribes it to the store.
// The selector is evaluated once immediately so the first write is compared
// against the initial selection rather than signaling unconditionally.
// signal may be nil for callers that only want Value's caching behavior.
func Observe[S, R any](store *Store[S], sel func(S) R, signal func()) *Watcher[S, R] {
	w := &Watcher[S, R]{
		store:  store,
		signal: signal,
		sel:    sel,
	}
	w.last = sel(store.Get())
	w.primed = true
	w.cancel = store.Subscribe(w.onWrite)
	return w
}

// ObserveState creates a whole-state watcher: its signal fires on every
// accepted write, and Value returns the current state.
func ObserveState[S any](store *Store[S], signal func()) *Watcher[S, S] {
	return Observe(store, func(s S) S { return s }, signal)
}

// Value installs sel as the newest selector (nil keeps the current one),
// evaluates it eagerly against the current state, records the result as the
// observed value, and returns it. A selector panic propagates to the caller
// and leaves the previously observed value in place.
func (w *Watcher[S, R]) Value(sel func(S) R) R {
	state := w.store.Get()

	w.mu.Lock()
	defer w.mu.Unlock()

	if sel != nil {
		w.sel = sel
	}
	next := w.sel(state)
	w.last = next
	w.primed = true
	return next
}

// Stop removes the watcher's subscription. Idempotent; no signal fires
// after Stop returns.
func (w *Watcher[S, R]) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// onWrite is the watcher's store subscription. It runs synchronously inside
// the store's fan-out with the new state value.
func (w *Watcher[S, R]) onWrite(state S) {
	w.mu.Lock()
	if w.cancel == nil {
		// Stopped between the store's subscriber snapshot and this call.
		w.mu.Unlock()
		return
	}

	next := w.sel(state)
	changed := !w.primed || !Identical(any(w.last), any(next))
	w.last = next
	w.primed = true
	signal := w.signal
	w.mu.Unlock()

	// The signal runs outside the watcher's lock so the caller may call
	// Value from inside it.
	if changed && signal != nil {
		signal()
	}
}
