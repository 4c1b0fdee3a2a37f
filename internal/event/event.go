// Package event defines the notices the zone core hands to the delivery
// helper. The core decides who is told what; encoding belongs to the helper.
package event

// Event is a single notice about one subject entity.
// Payload holds one of the payload structs from this package.
type Event struct {
	Kind      Kind
	Subject   EntityKind
	SubjectID uint32
	Payload   any
}

// Conn is an opaque recipient handle owned by the delivery helper.
type Conn interface {
	SessionID() uint64
}

// Notifier delivers an event to one recipient connection.
// Implementations must not block the caller on network I/O.
type Notifier interface {
	Notify(conn Conn, ev Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(conn Conn, ev Event)

// Notify calls f(conn, ev).
func (f NotifierFunc) Notify(conn Conn, ev Event) {
	f(conn, ev)
}

// Discard drops every event.
var Discard Notifier = NotifierFunc(func(Conn, Event) {})

// Absorption returns the target and absorbed amount of an attack or skill
// notice. ok is false for other payloads or when nothing was absorbed.
func (e Event) Absorption() (targetID uint32, value int32, ok bool) {
	switch p := e.Payload.(type) {
	case Attack:
		targetID, value = p.TargetID, p.Result.Absorb
	case SkillUse:
		targetID, value = p.TargetID, p.Result.Absorb
	default:
		return 0, 0, false
	}
	return targetID, value, value != 0
}
