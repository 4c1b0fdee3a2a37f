package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/udisondev/zonecell/internal/event"
)

var nextSession atomic.Uint64

// FakeConn: event.Conn для unit тестов, без сети.
type FakeConn struct {
	id   uint64
	Name string
}

// NewFakeConn создаёт соединение с уникальным session id.
func NewFakeConn(name string) *FakeConn {
	return &FakeConn{id: nextSession.Add(1), Name: name}
}

// SessionID implements event.Conn.
func (c *FakeConn) SessionID() uint64 {
	return c.id
}

func (c *FakeConn) String() string {
	return fmt.Sprintf("%s#%d", c.Name, c.id)
}

// Delivery: одно доставленное событие.
type Delivery struct {
	Conn  event.Conn
	Event event.Event
}

// RecordingNotifier запоминает все доставки (thread-safe).
type RecordingNotifier struct {
	mu         sync.Mutex
	deliveries []Delivery
}

var _ event.Notifier = (*RecordingNotifier)(nil)

// NewRecordingNotifier создаёт пустой notifier.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

// Notify implements event.Notifier.
func (r *RecordingNotifier) Notify(conn event.Conn, ev event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, Delivery{Conn: conn, Event: ev})
}

// All возвращает копию всех доставок.
func (r *RecordingNotifier) All() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Delivery, len(r.deliveries))
	copy(out, r.deliveries)
	return out
}

// For возвращает события, доставленные conn.
func (r *RecordingNotifier) For(conn event.Conn) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, d := range r.deliveries {
		if d.Conn.SessionID() == conn.SessionID() {
			out = append(out, d.Event)
		}
	}
	return out
}

// Count считает события kind о subject, доставленные conn.
func (r *RecordingNotifier) Count(conn event.Conn, kind event.Kind, subject uint32) int {
	n := 0
	for _, ev := range r.For(conn) {
		if ev.Kind == kind && ev.SubjectID == subject {
			n++
		}
	}
	return n
}

// CountKind считает события kind, доставленные conn.
func (r *RecordingNotifier) CountKind(conn event.Conn, kind event.Kind) int {
	n := 0
	for _, ev := range r.For(conn) {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// Len возвращает общее число доставок.
func (r *RecordingNotifier) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deliveries)
}

// Reset очищает журнал.
func (r *RecordingNotifier) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = nil
}
