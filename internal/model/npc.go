package model

import "github.com/udisondev/zonecell/internal/event"

// Npc is a non-hostile NPC (merchant, guard, quest giver).
type Npc struct {
	*Entity

	npcType uint8
	typeID  uint16
}

// NewNpc creates an NPC outside of any cell.
func NewNpc(id uint32, npcType uint8, typeID uint16, name string, loc Location) *Npc {
	return &Npc{
		Entity:  NewEntity(id, event.EntityNpc, name, loc),
		npcType: npcType,
		typeID:  typeID,
	}
}

// Type returns the NPC category.
func (n *Npc) Type() uint8 {
	return n.npcType
}

// TypeID returns the NPC id within its category.
func (n *Npc) TypeID() uint16 {
	return n.typeID
}
