package cell

import (
	"reflect"
	"sort"
	"sync"
)

// Memo wraps a pure selector with a field-level cache. keys name the
// top-level fields of the state (struct fields, or entries of a
// string-keyed map) the selector reads. On each call the cached fields are
// compared against the current state's by reference identity; when none
// differ the cached result is returned without re-invoking the selector, so
// a selector that builds a new container (filtering a slice, say) keeps a
// stable output identity across unrelated writes.
//
// With no keys the whole state's identity is the cache key: the selector
// re-runs only when the state reference itself changes.
//
// The returned function is safe for concurrent use. A selector panic
// propagates to the caller and leaves the cache unprimed for that input.
func Memo[S, R any](selector func(S) R, keys ...string) func(S) R {
	tracked := append([]string(nil), keys...)

	var (
		mu         sync.Mutex
		primed     bool
		lastState  S
		lastFields []any
		last       R
	)

	return func(state S) R {
		mu.Lock()
		defer mu.Unlock()

		if primed {
			if len(tracked) == 0 {
				if Identical(any(lastState), any(state)) {
					return last
				}
			} else {
				dirty := false
				for i, key := range tracked {
					if !Identical(lastFields[i], field(any(state), key)) {
						dirty = true
						break
					}
				}
				if !dirty {
					return last
				}
			}
		}

		last = selector(state)
		lastState = state
		lastFields = lastFields[:0]
		for _, key := range tracked {
			lastFields = append(lastFields, field(any(state), key))
		}
		primed = true
		return last
	}
}

// field extracts the named top-level field from a struct, struct pointer,
// or string-keyed map. Missing or inaccessible fields read as nil, which
// compares identical to itself and so never invalidates the cache.
func field(state any, key string) any {
	v := reflect.ValueOf(state)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		f := v.FieldByName(key)
		if !f.IsValid() || !f.CanInterface() {
			return nil
		}
		return f.Interface()
	case reflect.Map:
		if v.IsNil() || v.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := v.MapIndex(reflect.ValueOf(key))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	default:
		return nil
	}
}

// Snapshot is an accessor trampoline over a map-shaped state. During a
// tracked memo's first invocation it records every key the selector reads;
// afterwards it is a plain view.
type Snapshot struct {
	state map[string]any
	read  map[string]struct{} // nil when not recording
}

// Get returns the value stored under key, recording the access when the
// snapshot is instrumented.
func (s *Snapshot) Get(key string) any {
	if s.read != nil {
		s.read[key] = struct{}{}
	}
	return s.state[key]
}

// Has reports whether key is present. Counts as a read of key.
func (s *Snapshot) Has(key string) bool {
	if s.read != nil {
		s.read[key] = struct{}{}
	}
	_, ok := s.state[key]
	return ok
}

// Len returns the number of keys in the state. Not a tracked access.
func (s *Snapshot) Len() int {
	return len(s.state)
}

// TrackedMemo wraps a selector over map-shaped state, learning its tracked
// keys from the first invocation instead of an explicit declaration.
//
// The first call runs the selector against an instrumented Snapshot and
// records the set of keys it read. Every later call compares only those
// keys by reference identity, returning the cached result when none differ
// and re-running the selector against a plain snapshot otherwise.
//
// The tracked-key set is computed exactly once. If the selector's branching
// would read different keys on a later input, the newly relevant keys are
// not tracked and changes to them do not invalidate the cache. This is a
// deliberate limitation of first-call tracking, not something callers
// should rely on the memo to detect.
func TrackedMemo[R any](selector func(*Snapshot) R) func(map[string]any) R {
	var (
		mu        sync.Mutex
		primed    bool
		tracked   []string
		lastState map[string]any
		last      R
	)

	return func(state map[string]any) R {
		mu.Lock()
		defer mu.Unlock()

		if !primed {
			snap := &Snapshot{state: state, read: make(map[string]struct{})}
			last = selector(snap)
			tracked = tracked[:0]
			for k := range snap.read {
				tracked = append(tracked, k)
			}
			sort.Strings(tracked)
			lastState = state
			primed = true
			return last
		}

		dirty := false
		for _, key := range tracked {
			if !Identical(lastState[key], state[key]) {
				dirty = true
				break
			}
		}
		if !dirty {
			return last
		}

		last = selector(&Snapshot{state: state})
		lastState = state
		return last
	}
}
