package inspect

import (
	"testing"

	"github.com/cellstore-dev/cellstore/pkg/cell"
)

type counterState struct {
	Count int `json:"count"`
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	store := cell.New(counterState{Count: 1})

	if err := Register(reg, "counter", store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src, ok := reg.Lookup("counter")
	if !ok {
		t.Fatal("expected registered source")
	}
	if src.Name() != "counter" {
		t.Errorf("expected name counter, got %q", src.Name())
	}
	if got := src.Snapshot().(counterState); got.Count != 1 {
		t.Errorf("expected snapshot count 1, got %d", got.Count)
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	reg := NewRegistry()
	if err := Register(reg, "a", cell.New(counterState{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Register(reg, "a", cell.New(counterState{})); err == nil {
		t.Fatal("expected an error for a duplicate name")
	}
}

func TestRegistryNamesInRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		if err := Register(reg, name, cell.New(counterState{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	names := reg.Names()
	want := []string{"c", "a", "b"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected order %v, got %v", want, names)
			break
		}
	}
}

func TestSourceWatch(t *testing.T) {
	reg := NewRegistry()
	store := cell.New(counterState{})
	if err := Register(reg, "counter", store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src, _ := reg.Lookup("counter")

	var seen []any
	cancel := src.Watch(func(v any) { seen = append(seen, v) })

	store.Set(counterState{Count: 2})
	if len(seen) != 1 {
		t.Fatalf("expected 1 event, got %d", len(seen))
	}
	if got := seen[0].(counterState); got.Count != 2 {
		t.Errorf("expected count 2, got %d", got.Count)
	}

	cancel()
	store.Set(counterState{Count: 3})
	if len(seen) != 1 {
		t.Errorf("expected no events after cancel, got %d", len(seen))
	}
}
