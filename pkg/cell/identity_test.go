package cell

import "testing"

func TestIdenticalNil(t *testing.T) {
	if !Identical(nil, nil) {
		t.Error("nil must be identical to nil")
	}
	if Identical(nil, 0) || Identical("", nil) {
		t.Error("nil must not be identical to a value")
	}
}

func TestIdenticalComparables(t *testing.T) {
	if !Identical(3, 3) || Identical(3, 4) {
		t.Error("int identity broken")
	}
	if !Identical("a", "a") || Identical("a", "b") {
		t.Error("string identity broken")
	}
	if Identical(3, int64(3)) {
		t.Error("values of different types are never identical")
	}

	type point struct{ X, Y int }
	if !Identical(point{1, 2}, point{1, 2}) {
		t.Error("comparable structs compare by ==")
	}
}

func TestIdenticalReferences(t *testing.T) {
	a := &appState{Count: 1}
	b := &appState{Count: 1}
	if !Identical(a, a) {
		t.Error("a pointer is identical to itself")
	}
	if Identical(a, b) {
		t.Error("distinct pointers with equal contents are not identical")
	}

	s := []int{1, 2}
	if !Identical(s, s) {
		t.Error("a slice is identical to itself")
	}
	if Identical(s, []int{1, 2}) {
		t.Error("a rebuilt slice is a different value")
	}
	if Identical(s, s[:1]) {
		t.Error("a reslice with a different length is a different value")
	}

	m := map[string]int{"a": 1}
	if !Identical(m, m) || Identical(m, map[string]int{"a": 1}) {
		t.Error("map identity must be by reference")
	}
}

func TestIdenticalNonComparableValues(t *testing.T) {
	type holder struct{ Items []int }

	h := holder{Items: []int{1}}
	// Value structs carrying slices cannot be compared by identity; every
	// write of one counts as a change.
	if Identical(h, h) {
		t.Error("non-comparable value kinds are never identical")
	}
}

func TestIdenticalFuncs(t *testing.T) {
	f := func() int { return 1 }
	g := func() int { return 2 }
	if !Identical(f, f) {
		t.Error("a func value is identical to itself")
	}
	if Identical(f, g) {
		t.Error("distinct funcs are not identical")
	}
}
