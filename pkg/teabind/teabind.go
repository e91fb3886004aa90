// Package teabind bridges stores into Bubble Tea programs.
//
// A Binding watches a selection of a store and surfaces changes as Bubble
// Tea messages. The program requests the next change with Wait, handles the
// resulting Msg in Update, and issues Wait again, mirroring the usual
// tick-command pattern:
//
//	binding := teabind.Bind(store, func(s appState) int { return s.Count })
//
//	func (m model) Init() tea.Cmd { return m.binding.Wait() }
//
//	func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
//		switch msg := msg.(type) {
//		case teabind.Msg[int]:
//			m.count = msg.Value
//			return m, m.binding.Wait()
//		}
//		...
//	}
//
// Changes arriving while no Wait command is pending coalesce: the next Wait
// delivers only the latest selected value.
package teabind

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cellstore-dev/cellstore/pkg/cell"
)

// Msg carries a changed selected value into the program's Update.
type Msg[R any] struct {
	Value R
}

// Binding couples one store selection to a Bubble Tea program.
type Binding[S, R any] struct {
	watcher *cell.Watcher[S, R]
	ch      chan R
	done    chan struct{}
	once    sync.Once
}

// Bind watches sel over the store. The binding holds one store
// subscription until Close.
func Bind[S, R any](store *cell.Store[S], sel func(S) R) *Binding[S, R] {
	b := &Binding[S, R]{
		ch:   make(chan R, 1),
		done: make(chan struct{}),
	}
	b.watcher = cell.Observe(store, sel, b.push)
	return b
}

// push runs inside the store's fan-out whenever the selected value changes.
// The single-slot channel keeps only the newest value: a pending stale value
// is discarded before the new one is offered.
func (b *Binding[S, R]) push() {
	v := b.watcher.Value(nil)

	select {
	case b.ch <- v:
	default:
		select {
		case <-b.ch:
		default:
		}
		select {
		case b.ch <- v:
		default:
		}
	}
}

// Wait returns a command that resolves with the next changed value as a
// Msg[R]. After Close the command resolves to nil, which Bubble Tea ignores.
func (b *Binding[S, R]) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case v := <-b.ch:
			return Msg[R]{Value: v}
		case <-b.done:
			return nil
		}
	}
}

// Current evaluates the selector against the store's current state.
func (b *Binding[S, R]) Current() R {
	return b.watcher.Value(nil)
}

// Close stops the binding's store subscription and releases any pending
// Wait command. Idempotent.
func (b *Binding[S, R]) Close() {
	b.once.Do(func() {
		b.watcher.Stop()
		close(b.done)
	})
}
