package world

import "sync/atomic"

// IDGenerator hands out entity ids. Ranges are split by kind so ids never
// collide across registries:
//
//	0x00000000 - 0x0FFFFFFF: reserved (0 = no entity)
//	0x10000000 - 0x1FFFFFFF: players
//	0x20000000 - 0x2FFFFFFF: monsters
//	0x30000000 - 0x3FFFFFFF: NPCs
//	0x40000000 - 0x4FFFFFFF: items on the ground
type IDGenerator struct {
	nextPlayerID  atomic.Uint32
	nextMonsterID atomic.Uint32
	nextNpcID     atomic.Uint32
	nextItemID    atomic.Uint32
}

// NewIDGenerator creates a generator positioned at the start of each range.
func NewIDGenerator() *IDGenerator {
	gen := &IDGenerator{}
	gen.nextPlayerID.Store(0x10000000)
	gen.nextMonsterID.Store(0x20000000)
	gen.nextNpcID.Store(0x30000000)
	gen.nextItemID.Store(0x40000000)
	return gen
}

// NextPlayerID returns a fresh player id.
func (g *IDGenerator) NextPlayerID() uint32 {
	return g.nextPlayerID.Add(1)
}

// NextMonsterID returns a fresh monster id. Rebirth always takes a new one.
func (g *IDGenerator) NextMonsterID() uint32 {
	return g.nextMonsterID.Add(1)
}

// NextNpcID returns a fresh NPC id.
func (g *IDGenerator) NextNpcID() uint32 {
	return g.nextNpcID.Add(1)
}

// NextItemID returns a fresh dropped-item id.
func (g *IDGenerator) NextItemID() uint32 {
	return g.nextItemID.Add(1)
}
