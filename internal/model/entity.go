package model

import (
	"sync"

	"github.com/udisondev/zonecell/internal/event"
)

// NoCell marks an entity that is not placed in any cell yet.
const NoCell = -1

// Relay receives the state-change events an entity publishes.
// The cell an entity currently belongs to is its relay.
type Relay interface {
	Relay(ev event.Event)
}

// Entity is the record shared by everything placed in the world:
// players, monsters, NPCs and dropped items.
type Entity struct {
	id   uint32
	kind event.EntityKind

	mu        sync.RWMutex
	name      string
	location  Location
	cellID    int
	oldCellID int
	relay     Relay
}

// NewEntity creates an entity outside of any cell.
func NewEntity(id uint32, kind event.EntityKind, name string, loc Location) *Entity {
	return &Entity{
		id:        id,
		kind:      kind,
		name:      name,
		location:  loc,
		cellID:    NoCell,
		oldCellID: NoCell,
	}
}

// ID returns the unique entity id (immutable).
func (e *Entity) ID() uint32 {
	return e.id
}

// Kind returns what sort of entity this is (immutable).
func (e *Entity) Kind() event.EntityKind {
	return e.kind
}

// Name returns the display name.
func (e *Entity) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.name
}

// SetName sets the display name.
func (e *Entity) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
}

// Location returns a copy of the current position.
func (e *Entity) Location() Location {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.location
}

// SetLocation sets the position. It does not move the entity between
// cells; the map does that.
func (e *Entity) SetLocation(loc Location) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.location = loc
}

// CellID returns the index of the cell the entity was last assigned to.
func (e *Entity) CellID() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cellID
}

// OldCellID returns the cell occupied before the latest assignment
// (NoCell on first appearance).
func (e *Entity) OldCellID() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.oldCellID
}

// AssignCell records a move into cell idx: old = current, current = idx.
// Returns the previous cell.
func (e *Entity) AssignCell(idx int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.oldCellID = e.cellID
	e.cellID = idx
	return e.oldCellID
}

// ResetCell forgets both cell markers, so the next assignment counts as a
// first appearance.
func (e *Entity) ResetCell() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cellID = NoCell
	e.oldCellID = NoCell
}

// Attach makes r the destination of this entity's published events.
func (e *Entity) Attach(r Relay) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.relay = r
}

// Detach clears the relay if it is still r. Returns false when the entity
// was already attached elsewhere.
func (e *Entity) Detach(r Relay) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.relay != r {
		return false
	}
	e.relay = nil
	return true
}

// Attached reports whether the entity currently publishes somewhere.
func (e *Entity) Attached() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.relay != nil
}

// Publish hands ev to the current relay. Dropped when detached.
func (e *Entity) Publish(ev event.Event) {
	e.mu.RLock()
	r := e.relay
	e.mu.RUnlock()

	if r == nil {
		return
	}
	r.Relay(ev)
}

// Snapshot describes the entity for enter notices.
func (e *Entity) Snapshot() event.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return event.Snapshot{
		ID:      e.id,
		Kind:    e.kind,
		Name:    e.name,
		X:       e.location.X,
		Y:       e.location.Y,
		Z:       e.location.Z,
		Heading: e.location.Heading,
	}
}

// newEvent builds an event with this entity as subject.
func (e *Entity) newEvent(kind event.Kind, payload any) event.Event {
	return event.Event{
		Kind:      kind,
		Subject:   e.kind,
		SubjectID: e.id,
		Payload:   payload,
	}
}

// PublishMove announces the current position.
func (e *Entity) PublishMove(motion uint8) {
	loc := e.Location()
	e.Publish(e.newEvent(event.KindMove, event.Move{X: loc.X, Y: loc.Y, Z: loc.Z, Heading: loc.Heading, Motion: motion}))
}
