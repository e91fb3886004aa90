package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/cellstore-dev/cellstore/internal/config"
	"github.com/cellstore-dev/cellstore/internal/errors"
	"github.com/cellstore-dev/cellstore/pkg/cell"
	"github.com/cellstore-dev/cellstore/pkg/inspect"
	"github.com/cellstore-dev/cellstore/pkg/metrics"
	"github.com/cellstore-dev/cellstore/pkg/teabind"
)

type counterState struct {
	Count int `json:"count"`
}

type taskState struct {
	Items []string `json:"items"`
	Next  int      `json:"next"`
}

func demoCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive store demo",
		Long: `Run a terminal demo driven entirely by cellstore stores.

Two stores back the UI: a counter and a task list. Every key press is a
store write; the UI re-renders through watchers bound to the Bubble Tea
program. With the inspector enabled in cellstore.toml the same stores
stream live over HTTP and WebSocket.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to cellstore.toml")

	return cmd
}

func runDemo(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	counter := cell.New(counterState{})
	tasks := cell.New(taskState{Next: 1})

	collector := metrics.NewCollector(metrics.WithNamespace(cfg.Metrics.Namespace))
	instrumented := metrics.Instrument(collector, "counter", counter)

	if cfg.Metrics.Enabled && !cfg.Inspect.Enabled {
		warn("metrics are enabled but the inspector is not; /metrics is served on the inspector listener")
	}

	if cfg.Inspect.Enabled {
		registry := inspect.NewRegistry()
		if err := inspect.Register(registry, "counter", counter); err != nil {
			return err
		}
		if err := inspect.Register(registry, "tasks", tasks); err != nil {
			return err
		}

		srv := inspect.NewServer(registry, inspect.Config{
			Logger: logger.With("component", "inspect"),
		})
		srv.Start()
		defer srv.Close()

		mux := chi.NewRouter()
		if cfg.Metrics.Enabled {
			mux.Handle("/metrics", promhttp.Handler())
		}
		mux.Mount("/", srv.Router())

		go func() {
			logger.Info("inspector listening", "addr", cfg.Inspect.Addr)
			if err := http.ListenAndServe(cfg.Inspect.Addr, mux); err != nil {
				logger.Error("inspector stopped", "error", errors.New("E202").Wrap(err))
			}
		}()
	}

	m := newDemoModel(instrumented, tasks)
	defer m.closeBindings()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return errors.New("E301").Wrap(err)
	}

	success("demo finished")
	info("final count: %d, tasks: %d", counter.Get().Count, len(tasks.Get().Items))
	return nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	countStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	taskStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type demoModel struct {
	counter *metrics.Instrumented[counterState]
	tasks   *cell.Store[taskState]

	countBinding *teabind.Binding[counterState, int]
	taskBinding  *teabind.Binding[taskState, []string]

	// summary re-runs only when the Items slice identity changes, not on
	// Next bumps.
	summary func(taskState) string

	count int
	items []string
}

func newDemoModel(counter *metrics.Instrumented[counterState], tasks *cell.Store[taskState]) *demoModel {
	m := &demoModel{
		counter: counter,
		tasks:   tasks,
		summary: cell.Memo(func(s taskState) string {
			return fmt.Sprintf("%d task(s)", len(s.Items))
		}, "Items"),
	}

	m.countBinding = teabind.Bind(counter.Unwrap(), func(s counterState) int {
		return s.Count
	})
	m.taskBinding = teabind.Bind(tasks, func(s taskState) []string {
		return s.Items
	})

	m.count = m.countBinding.Current()
	m.items = m.taskBinding.Current()
	return m
}

func (m *demoModel) closeBindings() {
	m.countBinding.Close()
	m.taskBinding.Close()
}

func (m *demoModel) Init() tea.Cmd {
	return tea.Batch(m.countBinding.Wait(), m.taskBinding.Wait())
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case teabind.Msg[int]:
		m.count = msg.Value
		return m, m.countBinding.Wait()

	case teabind.Msg[[]string]:
		m.items = msg.Value
		return m, m.taskBinding.Wait()

	case tea.KeyMsg:
		switch msg.String() {
		case "+", "k", "up":
			m.counter.Update(func(s counterState) counterState {
				s.Count++
				return s
			})
		case "-", "j", "down":
			m.counter.Update(func(s counterState) counterState {
				s.Count--
				return s
			})
		case "a":
			m.tasks.Update(func(s taskState) taskState {
				s.Items = append(append([]string(nil), s.Items...),
					fmt.Sprintf("task %d", s.Next))
				s.Next++
				return s
			})
		case "r":
			// Both writes land, each binding is signaled once.
			cell.Batch(func() {
				m.counter.Set(counterState{})
				m.tasks.Set(taskState{Next: 1})
			})
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *demoModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cellstore demo"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  count: %s\n\n", countStyle.Render(fmt.Sprintf("%d", m.count))))

	b.WriteString(fmt.Sprintf("  %s\n", m.summary(m.tasks.Get())))
	for _, item := range m.items {
		b.WriteString(taskStyle.Render(fmt.Sprintf("    • %s", item)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  +/- count · a add task · r reset · q quit"))
	b.WriteString("\n")
	return b.String()
}
