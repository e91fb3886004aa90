package cell

import "reflect"

// Identical reports whether a and b are the same value by reference
// identity. Pointers, maps, channels, and functions compare by their data
// pointer; slices by data pointer and length; comparable values by ==.
// Non-comparable value kinds (for example a struct containing a slice) are
// never identical, so a write of such a value always counts as a change.
//
// This is the default change detector for Store, Watcher, and Memo. It is
// deliberately not a deep comparison: a freshly built slice with the same
// contents is a different value.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		if va.Comparable() {
			return va.Interface() == vb.Interface()
		}
		return false
	}
}
