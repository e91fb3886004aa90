package cell

import (
	"strings"
	"testing"
)

type memoState struct {
	Items     []string
	Unrelated *int
}

func TestMemoFieldTracking(t *testing.T) {
	calls := 0
	sel := Memo(func(s memoState) []string {
		calls++
		out := make([]string, 0, len(s.Items))
		for _, it := range s.Items {
			if strings.HasPrefix(it, "a") {
				out = append(out, it)
			}
		}
		return out
	}, "Items")

	items := []string{"ant", "bee", "ape"}
	x, y := 1, 2

	first := sel(memoState{Items: items, Unrelated: &x})
	if calls != 1 {
		t.Fatalf("expected 1 selector call, got %d", calls)
	}

	// Only the untracked field changed: cached instance comes back.
	second := sel(memoState{Items: items, Unrelated: &y})
	if calls != 1 {
		t.Errorf("unrelated change must not recompute, got %d calls", calls)
	}
	if !Identical(any(first), any(second)) {
		t.Error("expected the cached slice instance back")
	}

	// Tracked field changed: recompute.
	third := sel(memoState{Items: []string{"axe"}, Unrelated: &y})
	if calls != 2 {
		t.Errorf("tracked change expected recompute, got %d calls", calls)
	}
	if len(third) != 1 || third[0] != "axe" {
		t.Errorf("unexpected recomputed result %v", third)
	}
}

func TestMemoMapState(t *testing.T) {
	calls := 0
	sel := Memo(func(s map[string]any) int {
		calls++
		return s["count"].(int) * 2
	}, "count")

	if got := sel(map[string]any{"count": 2, "name": "x"}); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := sel(map[string]any{"count": 2, "name": "y"}); got != 4 || calls != 1 {
		t.Errorf("unrelated key change must hit cache, got %d with %d calls", got, calls)
	}
	if got := sel(map[string]any{"count": 3, "name": "y"}); got != 6 || calls != 2 {
		t.Errorf("tracked key change must recompute, got %d with %d calls", got, calls)
	}
}

func TestMemoNoKeysUsesStateIdentity(t *testing.T) {
	calls := 0
	sel := Memo(func(s *memoState) int {
		calls++
		return len(s.Items)
	})

	state := &memoState{Items: []string{"a"}}
	_ = sel(state)
	_ = sel(state)
	if calls != 1 {
		t.Errorf("same state reference must hit cache, got %d calls", calls)
	}

	_ = sel(&memoState{Items: []string{"a"}})
	if calls != 2 {
		t.Errorf("new state reference must recompute, got %d calls", calls)
	}
}

func TestTrackedMemoRecordsFirstCallKeys(t *testing.T) {
	calls := 0
	sel := TrackedMemo(func(s *Snapshot) int {
		calls++
		return s.Get("count").(int)
	})

	if got := sel(map[string]any{"count": 1, "name": "x"}); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}

	// Untracked key changes: cache hit.
	if got := sel(map[string]any{"count": 1, "name": "y"}); got != 1 || calls != 1 {
		t.Errorf("expected cached 1 with 1 call, got %d with %d calls", got, calls)
	}

	// Tracked key changes: recompute.
	if got := sel(map[string]any{"count": 2, "name": "y"}); got != 2 || calls != 2 {
		t.Errorf("expected recomputed 2 with 2 calls, got %d with %d calls", got, calls)
	}
}

func TestTrackedMemoKeysNeverRecomputed(t *testing.T) {
	// The selector branches: on the first call it reads only "mode", so
	// "detail" never becomes a tracked key even though a later input would
	// read it.
	sel := TrackedMemo(func(s *Snapshot) string {
		if s.Get("mode") == "plain" {
			return "plain"
		}
		return s.Get("detail").(string)
	})

	if got := sel(map[string]any{"mode": "plain", "detail": "a"}); got != "plain" {
		t.Fatalf("expected plain, got %q", got)
	}

	// Changing only the never-tracked key does not invalidate the cache.
	if got := sel(map[string]any{"mode": "plain", "detail": "b"}); got != "plain" {
		t.Errorf("untracked key must not invalidate, got %q", got)
	}

	// Changing the tracked key does.
	if got := sel(map[string]any{"mode": "rich", "detail": "b"}); got != "b" {
		t.Errorf("expected recompute through the rich branch, got %q", got)
	}
}

func TestTrackedMemoStableOutputIdentity(t *testing.T) {
	sel := TrackedMemo(func(s *Snapshot) []int {
		src := s.Get("items").([]int)
		out := make([]int, 0, len(src))
		for _, n := range src {
			if n%2 == 0 {
				out = append(out, n)
			}
		}
		return out
	})

	items := []int{1, 2, 3, 4}
	first := sel(map[string]any{"items": items, "unrelated": 1})
	second := sel(map[string]any{"items": items, "unrelated": 2})

	if !Identical(any(first), any(second)) {
		t.Error("expected the prior cached slice instance across unrelated writes")
	}

	third := sel(map[string]any{"items": []int{2}, "unrelated": 2})
	if Identical(any(second), any(third)) {
		t.Error("expected a newly computed slice after the tracked key changed")
	}
}

func TestMemoMissingField(t *testing.T) {
	calls := 0
	sel := Memo(func(s memoState) int {
		calls++
		return len(s.Items)
	}, "NoSuchField")

	_ = sel(memoState{Items: []string{"a"}})
	_ = sel(memoState{Items: []string{"a", "b"}})

	// A missing field reads as nil on both sides, so the cache never
	// invalidates. Misdeclared keys are the caller's bug; the memo must
	// just not panic.
	if calls != 1 {
		t.Errorf("expected 1 call for a missing tracked field, got %d", calls)
	}
}
