package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cellstore-dev/cellstore/internal/errors"
)

// defaultTracerName is the tracer used when Config.TracerName is empty.
const defaultTracerName = "cellstore.inspect"

// Config configures an inspector server.
type Config struct {
	// Logger receives inspector logs. Defaults to slog.Default with a
	// component attribute.
	Logger *slog.Logger

	// TracerName names the OpenTelemetry tracer for inspector spans.
	TracerName string

	// CheckOrigin is the WebSocket origin policy. Defaults to
	// same-host-only via the gorilla default.
	CheckOrigin func(*http.Request) bool

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int
}

// Server exposes a Registry over HTTP and WebSocket.
type Server struct {
	registry *Registry
	logger   *slog.Logger
	tracer   trace.Tracer
	upgrader websocket.Upgrader
	hub      *hub

	seq atomic.Uint64

	mu      sync.Mutex
	cancels []func()
	started bool
}

// NewServer creates an inspector over the given registry.
func NewServer(registry *Registry, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "inspect")
	}

	tracerName := cfg.TracerName
	if tracerName == "" {
		tracerName = defaultTracerName
	}

	return &Server{
		registry: registry,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		hub: newHub(logger),
	}
}

// Start subscribes the inspector to every registered store. Idempotent.
// Stores registered after Start are visible in snapshots but do not stream
// until the next Start/Close cycle.
func (s *Server) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, src := range s.registry.sourcesInOrder() {
		name := src.Name()
		cancel := src.Watch(func(state any) {
			s.hub.broadcast(Event{
				Store: name,
				Seq:   s.seq.Add(1),
				State: state,
				Time:  time.Now(),
			})
		})
		s.cancels = append(s.cancels, cancel)
	}
}

// Close cancels all store subscriptions and disconnects clients. The
// server can be started again afterwards.
func (s *Server) Close() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.started = false
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	s.hub.closeAll()
}

// ClientCount returns the number of connected devtools clients.
func (s *Server) ClientCount() int {
	return s.hub.count()
}

// Router returns the inspector's http.Handler for mounting in an external
// mux.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/stores", s.traced("inspect.stores", s.handleStores))
	r.Get("/stores/{name}", s.traced("inspect.store", s.handleStore))
	r.Get("/ws", s.handleWS)
	return r
}

// ListenAndServe runs the inspector on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("inspector listening", "addr", addr)
	if err := http.ListenAndServe(addr, s.Router()); err != nil {
		return errors.New("E202").Wrap(err)
	}
	return nil
}

// traced wraps a handler in an OpenTelemetry span. The tracer resolves
// through the global provider, so applications without one configured pay
// only a no-op span.
func (s *Server) traced(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(
			r.Context(),
			name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("cellstore.path", r.URL.Path)),
		)
		defer span.End()

		h(w, r.WithContext(ctx))
	}
}

// storeListing is one entry of the /stores response.
type storeListing struct {
	Name  string `json:"name"`
	State any    `json:"state"`
}

func (s *Server) handleStores(w http.ResponseWriter, r *http.Request) {
	sources := s.registry.sourcesInOrder()
	listings := make([]storeListing, 0, len(sources))
	for _, src := range sources {
		listings = append(listings, storeListing{Name: src.Name(), State: src.Snapshot()})
	}
	s.writeJSON(w, listings)
}

func (s *Server) handleStore(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	src, ok := s.registry.Lookup(name)
	if !ok {
		http.Error(w, "unknown store", http.StatusNotFound)
		return
	}
	s.writeJSON(w, storeListing{Name: src.Name(), State: src.Snapshot()})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade error", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan Event, clientBuffer)}
	s.hub.add(c)
	go c.writePump(s.logger)

	// Seed the client with a snapshot of every store so it does not have
	// to wait for the next write.
	for _, src := range s.registry.sourcesInOrder() {
		c.send <- Event{
			Store: src.Name(),
			Seq:   s.seq.Load(),
			State: src.Snapshot(),
			Time:  time.Now(),
		}
	}

	// Read loop: the inspector stream is one-way, so inbound frames are
	// discarded; the loop exists to detect the close handshake.
	go func() {
		defer s.hub.remove(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
					websocket.CloseNormalClosure) {
					s.logger.Error("read error", "error", err)
				}
				return
			}
		}
	}()
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode error", "error", err)
	}
}
