package cell

// Computed binds a selector to a store as a pull-only read. Each call of
// the returned function evaluates the selector fresh against the current
// state: no caching, no subscription, no signaling. Convenient for call
// sites outside a watcher's observation scope.
func Computed[S, R any](store *Store[S], sel func(S) R) func() R {
	return func() R {
		return sel(store.Get())
	}
}
