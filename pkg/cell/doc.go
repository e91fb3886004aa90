// Package cell provides a minimal external-state container for
// component-based UIs.
//
// A Store holds a single state value and a set of subscribers. Writes
// replace the whole value; a write that produces the same reference as the
// current value is suppressed and notifies nobody. Change detection is
// reference identity, never deep equality: state values are immutable by
// convention, and every change must produce a new value.
//
// Usage:
//
//	type AppState struct {
//	    Count int
//	    Tasks []string
//	}
//
//	store := cell.New(AppState{})
//
//	cancel := store.Subscribe(func(s AppState) {
//	    fmt.Println("count is", s.Count)
//	})
//	defer cancel()
//
//	store.Update(func(s AppState) AppState {
//	    s.Count++
//	    return s
//	})
//
// A Watcher couples a selector evaluation to an external re-render signal,
// firing only when the selected value's identity changes. Memo wraps a
// selector with a field-level cache so derived containers keep their
// identity across unrelated writes. Computed binds a selector to a store as
// a pull-only read.
//
// Stores are created during application wiring and passed down explicitly.
// The package keeps no global registry of its own.
package cell
