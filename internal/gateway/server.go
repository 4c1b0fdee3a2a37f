package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Config holds the delivery settings.
type Config struct {
	Address        string
	Path           string
	OutboxSize     int
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxMessageSize int64
}

// DefaultConfig returns the delivery defaults.
func DefaultConfig() Config {
	return Config{
		Address:        "0.0.0.0:7780",
		Path:           "/ws",
		OutboxSize:     256,
		WriteTimeout:   5 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxMessageSize: 4096,
	}
}

func (c Config) pingInterval() time.Duration {
	return c.IdleTimeout * 9 / 10
}

// Handler reacts to session lifecycle and client commands.
type Handler interface {
	// Connected is called before the read pump starts. An error rejects
	// the session.
	Connected(s *Session, r *http.Request) error
	Command(s *Session, cmd Command)
	Disconnected(s *Session)
}

// Server accepts websocket clients.
type Server struct {
	cfg      Config
	hub      *Hub
	handler  Handler
	upgrader websocket.Upgrader
}

// NewServer creates a server. Panics on nil hub or handler.
func NewServer(cfg Config, hub *Hub, handler Handler) *Server {
	if hub == nil {
		panic("NewServer: hub cannot be nil")
	}
	if handler == nil {
		panic("NewServer: handler cannot be nil")
	}
	def := DefaultConfig()
	if cfg.Path == "" {
		cfg.Path = def.Path
	}
	if cfg.OutboxSize <= 0 {
		cfg.OutboxSize = def.OutboxSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = def.IdleTimeout
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = def.MaxMessageSize
	}

	return &Server{
		cfg:     cfg,
		hub:     hub,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP mux serving the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.serveWS)
	return mux
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sess := newSession(s.hub.nextID.Add(1), ws, s.cfg)
	sess.hold()
	if err := s.handler.Connected(sess, r); err != nil {
		slog.Warn("session rejected", "session", sess.id, "remote", r.RemoteAddr, "error", err)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(s.cfg.WriteTimeout))
		sess.Close()
		return
	}

	s.hub.register(sess)
	slog.Info("session opened", "session", sess.id, "remote", r.RemoteAddr)

	if err := sess.flushHeld(); err != nil {
		slog.Warn("session snapshot failed", "session", sess.id, "error", err)
		sess.Close()
	}

	go sess.writePump()
	go func() {
		sess.readPump(func(cmd Command) { s.handler.Command(sess, cmd) })
		s.hub.unregister(sess)
		s.handler.Disconnected(sess)
		slog.Info("session closed", "session", sess.id, "dropped", sess.Dropped())
	}()
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts clients on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	slog.Info("gateway listening", "address", ln.Addr().String(), "path", s.cfg.Path)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving websocket: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.hub.CloseAll()
	if err != nil {
		return fmt.Errorf("shutting down gateway: %w", err)
	}
	return nil
}
