package gateway

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/zonecell/internal/event"
)

// ErrOutboxFull is returned by Send when the client is not keeping up.
var ErrOutboxFull = errors.New("session outbox full")

// ErrSessionClosed is returned by Send after Close.
var ErrSessionClosed = errors.New("session closed")

// Session is one websocket client. It implements event.Conn.
type Session struct {
	id   uint64
	ws   *websocket.Conn
	cfg  Config
	out  chan []byte
	done chan struct{}

	closeOnce sync.Once
	dropped   atomic.Uint64

	// While holding, Send buffers without limit so the first-spawn burst
	// reaches the client in full. flushHeld ends it.
	holding atomic.Bool
	heldMu  sync.Mutex
	held    [][]byte

	mu    sync.RWMutex
	value any
}

var _ event.Conn = (*Session)(nil)

func newSession(id uint64, ws *websocket.Conn, cfg Config) *Session {
	return &Session{
		id:   id,
		ws:   ws,
		cfg:  cfg,
		out:  make(chan []byte, cfg.OutboxSize),
		done: make(chan struct{}),
	}
}

// SessionID implements event.Conn.
func (s *Session) SessionID() uint64 {
	return s.id
}

// RemoteAddr returns the client address.
func (s *Session) RemoteAddr() string {
	return s.ws.RemoteAddr().String()
}

// Bind attaches handler state (the player) to the session.
func (s *Session) Bind(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
}

// Value returns what Bind attached.
func (s *Session) Value() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Dropped returns how many messages were discarded on a full outbox.
func (s *Session) Dropped() uint64 {
	return s.dropped.Load()
}

// Send queues an encoded message without blocking.
func (s *Session) Send(data []byte) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	if s.holding.Load() {
		s.heldMu.Lock()
		if s.holding.Load() {
			s.held = append(s.held, data)
			s.heldMu.Unlock()
			return nil
		}
		s.heldMu.Unlock()
	}

	select {
	case s.out <- data:
		return nil
	default:
		s.dropped.Add(1)
		return ErrOutboxFull
	}
}

// hold makes Send buffer everything until flushHeld.
func (s *Session) hold() {
	s.holding.Store(true)
}

// flushHeld writes the buffered messages straight to the socket and
// switches Send back to the outbox. Must run before writePump starts.
func (s *Session) flushHeld() error {
	for {
		s.heldMu.Lock()
		batch := s.held
		s.held = nil
		if len(batch) == 0 {
			s.holding.Store(false)
			s.heldMu.Unlock()
			return nil
		}
		s.heldMu.Unlock()

		for _, data := range batch {
			_ = s.ws.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
				s.heldMu.Lock()
				s.held = nil
				s.holding.Store(false)
				s.heldMu.Unlock()
				return fmt.Errorf("writing initial snapshot: %w", err)
			}
		}
	}
}

// Close stops both pumps. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.ws.Close()
	})
}

// Done is closed once the session is closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// writePump sends queued messages and keeps the connection alive with
// pings. Returns when the session closes or a write fails.
func (s *Session) writePump() {
	ticker := time.NewTicker(s.cfg.pingInterval())
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case <-s.done:
			_ = s.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.cfg.WriteTimeout))
			return
		case data := <-s.out:
			_ = s.ws.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
				slog.Debug("session write failed", "session", s.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = s.ws.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := s.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("session ping failed", "session", s.id, "error", err)
				return
			}
		}
	}
}

// readPump decodes client commands and hands them to handle. A client
// silent for longer than the idle timeout is dropped.
func (s *Session) readPump(handle func(Command)) {
	defer s.Close()

	s.ws.SetReadLimit(s.cfg.MaxMessageSize)
	_ = s.ws.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
	})

	for {
		_, data, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("session read failed", "session", s.id, "error", err)
			}
			return
		}
		_ = s.ws.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))

		cmd, err := DecodeCommand(data)
		if err != nil {
			slog.Warn("bad client command", "session", s.id, "error", err)
			continue
		}
		handle(cmd)
	}
}
