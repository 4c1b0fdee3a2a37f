package gateway

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/udisondev/zonecell/internal/event"
)

// Hub tracks live sessions and implements event.Notifier on top of them.
type Hub struct {
	sessions sync.Map // uint64 -> *Session
	count    atomic.Int32
	nextID   atomic.Uint64
}

var _ event.Notifier = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) register(s *Session) {
	h.sessions.Store(s.id, s)
	h.count.Add(1)
}

func (h *Hub) unregister(s *Session) {
	if _, ok := h.sessions.LoadAndDelete(s.id); ok {
		h.count.Add(-1)
	}
}

// Session returns a live session by id.
func (h *Hub) Session(id uint64) (*Session, bool) {
	v, ok := h.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	return int(h.count.Load())
}

// CloseAll closes every live session.
func (h *Hub) CloseAll() {
	h.sessions.Range(func(_, v any) bool {
		v.(*Session).Close()
		return true
	})
}

// Notify encodes ev and queues it on the recipient's outbox. Never blocks;
// unknown recipients and full outboxes drop the event.
func (h *Hub) Notify(conn event.Conn, ev event.Event) {
	s, ok := conn.(*Session)
	if !ok {
		if s, ok = h.Session(conn.SessionID()); !ok {
			slog.Debug("notify to unknown session", "session", conn.SessionID(), "kind", ev.Kind)
			return
		}
	}

	data, err := EncodeEvent(ev)
	if err != nil {
		slog.Error("event not encoded", "kind", ev.Kind, "subject", ev.SubjectID, "error", err)
		return
	}

	if err := s.Send(data); err != nil {
		if errors.Is(err, ErrOutboxFull) {
			slog.Warn("event dropped, outbox full", "session", s.id, "kind", ev.Kind, "dropped", s.Dropped())
		}
	}
}
