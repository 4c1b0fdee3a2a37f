package model

import "github.com/udisondev/zonecell/internal/event"

// Killable is anything that can be targeted and killed.
type Killable interface {
	ID() uint32
	Kind() event.EntityKind
	Location() Location
	IsDead() bool
}

var (
	_ Killable = (*Player)(nil)
	_ Killable = (*Monster)(nil)
)
