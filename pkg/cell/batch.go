package cell

import (
	"runtime"
	"sync"
)

// batchScope accumulates deferred notifications for one goroutine's batch.
type batchScope struct {
	// depth tracks nested Batch calls. Notifications fire only when the
	// outermost batch completes.
	depth int

	// pending holds one entry per subscription that would have been
	// notified. Re-notifying the same subscription replaces its entry so
	// it observes only the latest value.
	pending []pendingNotify
}

type pendingNotify struct {
	id  uint64
	run func()
}

// batchScopes stores per-goroutine batch scopes. Stores consult the
// ambient scope at notify time; they carry no batching state of their own.
var batchScopes sync.Map // map[uint64]*batchScope

// goroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header ("goroutine <id> ...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// Batch groups multiple store writes into a single notification phase.
// Writes inside the batch apply to their stores immediately, but subscriber
// fan-out is deferred: when the outermost batch completes, each affected
// subscription is notified exactly once with the latest value written to
// its store during the batch.
//
// Batches are per goroutine and may be nested. A panic inside fn still
// drains the pending notifications, matching the drain-on-unwind behavior
// of the notification queue.
//
// Example:
//
//	cell.Batch(func() {
//	    profile.Set(newProfile)
//	    settings.Set(newSettings)
//	})
//	// each subscriber of each store notified once
func Batch(fn func()) {
	gid := goroutineID()

	var scope *batchScope
	if v, ok := batchScopes.Load(gid); ok {
		scope = v.(*batchScope)
	} else {
		scope = &batchScope{}
		batchScopes.Store(gid, scope)
	}

	scope.depth++
	defer func() {
		scope.depth--
		if scope.depth == 0 {
			pending := scope.pending
			scope.pending = nil
			batchScopes.Delete(gid)

			// Drained notifications run outside any batch scope; a
			// reentrant write here fans out immediately.
			for _, p := range pending {
				p.run()
			}
		}
	}()

	fn()
}

// batchDepth returns the current goroutine's batch nesting depth.
func batchDepth() int {
	if v, ok := batchScopes.Load(goroutineID()); ok {
		return v.(*batchScope).depth
	}
	return 0
}

// queuePending records a deferred notification for a subscription. An
// existing entry for the same subscription keeps its queue position but is
// replaced with the newer notification.
func queuePending(id uint64, run func()) {
	v, ok := batchScopes.Load(goroutineID())
	if !ok {
		// No batch on this goroutine (write raced a batch on another);
		// deliver immediately.
		run()
		return
	}
	scope := v.(*batchScope)

	for i := range scope.pending {
		if scope.pending[i].id == id {
			scope.pending[i].run = run
			return
		}
	}
	scope.pending = append(scope.pending, pendingNotify{id: id, run: run})
}
