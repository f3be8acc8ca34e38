package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/TFMV/forcepad/geom"
	"github.com/TFMV/forcepad/interact"
	"github.com/TFMV/forcepad/physics"
	"github.com/TFMV/forcepad/render"
	"github.com/TFMV/forcepad/session"
)

const (
	shutdownTimeout = 5 * time.Second
	wsWriteWait     = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Configuration for the server
type Config struct {
	Port       int
	Width      float64
	Height     float64
	Background string
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Port:       8080,
		Width:      render.DefaultWidth,
		Height:     render.DefaultHeight,
		Background: render.DefaultBackground,
	}
}

// Server hosts one editing session over HTTP and websockets.
type Server struct {
	session  *session.Session
	cfg      Config
	log      *slog.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// New creates a server for sess.
func New(sess *session.Session, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		session: sess,
		cfg:     cfg,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	s.mux.HandleFunc("POST /api/events", s.handleEvents)
	s.mux.HandleFunc("POST /api/mode", s.handleMode)
	s.mux.HandleFunc("GET /api/forces", s.handleGetForces)
	s.mux.HandleFunc("POST /api/forces", s.handleSetForces)
	s.mux.HandleFunc("POST /api/toggle", s.handleToggle)
	s.mux.HandleFunc("POST /api/directed", s.handleDirected)
	s.mux.HandleFunc("GET /render", s.handleRender)
	s.mux.HandleFunc("GET /ws", s.handleWS)
	return s
}

// Handler returns the server's routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.withRequestLogger(s.mux)
}

// Start listens on the configured port and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return errors.Wrapf(err, "listen on port %d", s.cfg.Port)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	s.log.Info("server stopped")
	return nil
}

// message is the wire form of one client command, shared by /api/events
// and the websocket.
type message struct {
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Mode     string  `json:"mode,omitempty"`
	Directed bool    `json:"directed,omitempty"`
}

func (m message) pointerEvent() (interact.Event, bool) {
	p := geom.V(m.X, m.Y)
	switch m.Type {
	case "move":
		return interact.Moved(p), true
	case "press":
		return interact.Pressed(p), true
	case "release":
		return interact.Released(p), true
	}
	return interact.Event{}, false
}

// apply runs one message against the session.
func (s *Server) apply(ctx context.Context, m message) error {
	if ev, ok := m.pointerEvent(); ok {
		return s.session.Send(ctx, ev)
	}
	switch m.Type {
	case "mode":
		return s.session.SetMode(ctx, m.Mode)
	case "toggle":
		_, err := s.session.ToggleEdgeAt(ctx, geom.V(m.X, m.Y))
		return err
	case "directed":
		return s.session.SetDirected(ctx, m.Directed)
	}
	return errors.Errorf("unknown message type %q", m.Type)
}

// handleIndex serves the canvas page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexHTML, s.cfg.Width, s.cfg.Height, s.cfg.Background)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Latest()
	writeJSON(w, http.StatusOK, &snap)
}

// handleEvents applies a batch of pointer events in order
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var batch []message
	if !decodeBody(w, r, &batch) {
		return
	}

	events := make([]interact.Event, 0, len(batch))
	for i, m := range batch {
		ev, ok := m.pointerEvent()
		if !ok {
			http.Error(w, fmt.Sprintf("event %d: unknown type %q", i, m.Type), http.StatusBadRequest)
			return
		}
		events = append(events, ev)
	}

	if err := s.session.Send(r.Context(), events...); err != nil {
		s.sessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.session.SetMode(r.Context(), req.Mode); err != nil {
		s.sessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mode": strings.ToLower(strings.TrimSpace(req.Mode))})
}

type forcesBody struct {
	Push physics.PushConfig `json:"push"`
	Pull physics.PullConfig `json:"pull"`
}

func (s *Server) handleGetForces(w http.ResponseWriter, r *http.Request) {
	push, pull, err := s.session.Forces(r.Context())
	if err != nil {
		s.sessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, forcesBody{Push: push, Pull: pull})
}

func (s *Server) handleSetForces(w http.ResponseWriter, r *http.Request) {
	var req forcesBody
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.session.SetForces(r.Context(), req.Push, req.Pull); err != nil {
		s.sessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req message
	if !decodeBody(w, r, &req) {
		return
	}
	found, err := s.session.ToggleEdgeAt(r.Context(), geom.V(req.X, req.Y))
	if err != nil {
		s.sessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"found": found})
}

func (s *Server) handleDirected(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Directed bool `json:"directed"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.session.SetDirected(r.Context(), req.Directed); err != nil {
		s.sessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// handleRender renders the latest frame in the requested format
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "svg"
	}

	options := render.NewDefaultOptions(format)
	options.Width = s.cfg.Width
	options.Height = s.cfg.Height
	options.Background = s.cfg.Background
	if v, err := strconv.ParseFloat(q.Get("width"), 64); err == nil && v > 0 {
		options.Width = v
	}
	if v, err := strconv.ParseFloat(q.Get("height"), 64); err == nil && v > 0 {
		options.Height = v
	}
	options.Fit, _ = strconv.ParseBool(q.Get("fit"))
	options.ShowLabels, _ = strconv.ParseBool(q.Get("labels"))

	snap := s.session.Latest()
	output, err := render.GenerateWithOptions(&snap, options)
	if errors.Is(err, render.ErrUnsupportedFormat) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		loggerFrom(r.Context()).Error("render failed", "format", format, "error", err)
		http.Error(w, "Error generating visualization: "+err.Error(), http.StatusInternalServerError)
		return
	}

	switch strings.ToLower(format) {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	case "ascii":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	case "json":
		w.Header().Set("Content-Type", "application/json")
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	}
	w.Write(output)
}

// handleWS streams snapshots to the client and applies the messages it
// sends back.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	log := loggerFrom(r.Context())
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	log.Info("websocket connected")

	snaps, unsubscribe := s.session.Subscribe()
	defer unsubscribe()

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		defer conn.Close()
		for {
			select {
			case <-ctx.Done():
				return nil
			case snap, ok := <-snaps:
				if !ok {
					return nil
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(&snap); err != nil {
					return errors.Wrap(err, "write snapshot")
				}
			}
		}
	})

	g.Go(func() error {
		for {
			var m message
			if err := conn.ReadJSON(&m); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return errClientGone
				}
				return errors.Wrap(err, "read message")
			}
			if err := s.apply(ctx, m); err != nil {
				if errors.Is(err, session.ErrStopped) {
					return err
				}
				log.Debug("websocket message rejected", "type", m.Type, "error", err)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errClientGone) {
		log.Debug("websocket closed", "error", err)
		return
	}
	log.Info("websocket disconnected")
}

var errClientGone = errors.New("client closed connection")

func (s *Server) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, interact.ErrUnknownMode), errors.Is(err, physics.ErrBadForceConfig):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, session.ErrStopped):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		loggerFrom(r.Context()).Error("session command failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		http.Error(w, "Error parsing request: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(v)
}
