package teabind

import (
	"testing"
	"time"

	"github.com/cellstore-dev/cellstore/pkg/cell"
)

type appState struct {
	Count int
	Name  string
}

func TestBindingDeliversChanges(t *testing.T) {
	store := cell.New(appState{Count: 1})
	binding := Bind(store, func(s appState) int { return s.Count })
	defer binding.Close()

	store.Set(appState{Count: 2})

	msg := binding.Wait()()
	got, ok := msg.(Msg[int])
	if !ok {
		t.Fatalf("expected Msg[int], got %T", msg)
	}
	if got.Value != 2 {
		t.Errorf("expected value 2, got %d", got.Value)
	}
}

func TestBindingCoalescesToLatest(t *testing.T) {
	store := cell.New(appState{})
	binding := Bind(store, func(s appState) int { return s.Count })
	defer binding.Close()

	// Three writes land before anyone waits; only the newest survives.
	store.Set(appState{Count: 1})
	store.Set(appState{Count: 2})
	store.Set(appState{Count: 3})

	msg := binding.Wait()().(Msg[int])
	if msg.Value != 3 {
		t.Errorf("expected latest value 3, got %d", msg.Value)
	}

	// Nothing else is pending.
	select {
	case v := <-binding.ch:
		t.Errorf("expected empty queue, got %v", v)
	default:
	}
}

func TestBindingIgnoresUnselectedWrites(t *testing.T) {
	store := cell.New(appState{Count: 1, Name: "a"})
	binding := Bind(store, func(s appState) int { return s.Count })
	defer binding.Close()

	store.Set(appState{Count: 1, Name: "b"})

	select {
	case v := <-binding.ch:
		t.Errorf("name-only write must not queue a value, got %v", v)
	default:
	}
}

func TestBindingCurrent(t *testing.T) {
	store := cell.New(appState{Count: 5})
	binding := Bind(store, func(s appState) int { return s.Count })
	defer binding.Close()

	if got := binding.Current(); got != 5 {
		t.Errorf("expected current 5, got %d", got)
	}

	store.Set(appState{Count: 6})
	if got := binding.Current(); got != 6 {
		t.Errorf("expected current 6, got %d", got)
	}
}

func TestBindingCloseReleasesWait(t *testing.T) {
	store := cell.New(appState{})
	binding := Bind(store, func(s appState) int { return s.Count })

	result := make(chan any, 1)
	go func() { result <- binding.Wait()() }()

	binding.Close()

	select {
	case msg := <-result:
		if msg != nil {
			t.Errorf("expected nil message after Close, got %v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait command did not resolve after Close")
	}

	if store.SubscriberCount() != 0 {
		t.Errorf("Close must drop the store subscription, got %d", store.SubscriberCount())
	}

	binding.Close()
}
