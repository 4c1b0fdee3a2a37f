package world

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/zonecell/internal/model"
)

// Cell is one partition of a map. It owns the registries of the entities
// inside it and relays their published events to the players that can see
// them.
type Cell struct {
	index     int
	neighbors []int // includes index, immutable
	m         *Map

	players registry[*model.Player]
	mobs    registry[*model.Monster]
	npcs    registry[*model.Npc]
	items   registry[*model.MapItem]

	subs     subscriptions
	disposed atomic.Bool
}

var _ model.Relay = (*Cell)(nil)

func newCell(index int, neighbors []int, m *Map) *Cell {
	return &Cell{
		index:     index,
		neighbors: neighbors,
		m:         m,
	}
}

// Index returns the cell index within its map.
func (c *Cell) Index() int {
	return c.index
}

// Neighbors returns the visible cell indices, this cell included.
// IMPORTANT: the returned slice is shared, DO NOT modify.
func (c *Cell) Neighbors() []int {
	return c.neighbors
}

// Map returns the owning map.
func (c *Cell) Map() *Map {
	return c.m
}

// AddPlayer places p in the cell and runs the interest transition.
// Returns false if p is already registered here.
func (c *Cell) AddPlayer(p *model.Player) bool {
	if !c.players.add(p.ID(), p) {
		return false
	}
	old := p.AssignCell(c.index)

	// Test maps never relay player events.
	if c.m.Type() != TypeTest {
		c.subs.add(p.Entity, c)
	}

	c.playerTransition(p, old)
	slog.Debug("player added to cell", "map", c.m.ID(), "cell", c.index, "player", p.ID(), "from", old)
	return true
}

// AddMob places a monster in the cell and announces it to the players
// that could not see it before.
func (c *Cell) AddMob(mob *model.Monster) bool {
	if !c.mobs.add(mob.ID(), mob) {
		return false
	}
	old := mob.AssignCell(c.index)
	c.subs.add(mob.Entity, c)
	c.objectTransition(mob.Entity, old)
	return true
}

// AddNpc places an NPC in the cell.
func (c *Cell) AddNpc(npc *model.Npc) bool {
	if !c.npcs.add(npc.ID(), npc) {
		return false
	}
	old := npc.AssignCell(c.index)
	c.subs.add(npc.Entity, c)
	c.objectTransition(npc.Entity, old)
	return true
}

// AddItem places a dropped item in the cell.
func (c *Cell) AddItem(item *model.MapItem) bool {
	if !c.items.add(item.ID(), item) {
		return false
	}
	old := item.AssignCell(c.index)
	c.objectTransition(item.Entity, old)
	return true
}

// RemovePlayer takes p out of the cell. Monsters targeting p lose their
// target. With notify the visible players are told p left and p's cell
// markers are reset; cell-to-cell moves pass notify=false and let the
// following add send the diff. Returns false if p was not here.
func (c *Cell) RemovePlayer(p *model.Player, notify bool) bool {
	c.subs.remove(p.Entity, c)
	if _, ok := c.players.remove(p.ID()); !ok {
		return false
	}

	for _, mob := range c.GetAllMobs(true) {
		mob.ClearTargetIf(p.ID())
	}

	if notify {
		p.ResetCell()
		c.broadcastLeave(p.Entity)
	}
	slog.Debug("player removed from cell", "map", c.m.ID(), "cell", c.index, "player", p.ID(), "notify", notify)
	return true
}

// RemoveMob takes a monster out of the cell.
func (c *Cell) RemoveMob(mob *model.Monster, notify bool) bool {
	c.subs.remove(mob.Entity, c)
	if _, ok := c.mobs.remove(mob.ID()); !ok {
		return false
	}
	if notify {
		mob.ResetCell()
		c.broadcastLeave(mob.Entity)
	}
	return true
}

// RemoveNpc takes an NPC out of the cell.
func (c *Cell) RemoveNpc(npc *model.Npc, notify bool) bool {
	c.subs.remove(npc.Entity, c)
	if _, ok := c.npcs.remove(npc.ID()); !ok {
		return false
	}
	if notify {
		npc.ResetCell()
		c.broadcastLeave(npc.Entity)
	}
	return true
}

// RemoveNpcs removes up to count NPCs of the given type and type id from
// this cell, announcing each removal. Returns how many were removed.
func (c *Cell) RemoveNpcs(npcType uint8, typeID uint16, count int) int {
	removed := 0
	for _, npc := range c.npcs.values() {
		if removed >= count {
			break
		}
		if npc.Type() != npcType || npc.TypeID() != typeID {
			continue
		}
		if c.RemoveNpc(npc, true) {
			removed++
		}
	}
	return removed
}

// RemoveItem takes the item with the given id out of the cell. With notify
// its expiry timer is stopped and the visible players see it disappear.
// Returns nil if the item is not here.
func (c *Cell) RemoveItem(id uint32, notify bool) *model.MapItem {
	item, ok := c.items.remove(id)
	if !ok {
		return nil
	}
	if notify {
		item.StopExpiry()
		item.ResetCell()
		c.broadcastLeave(item.Entity)
	}
	return item
}

// GetAllPlayers returns the cell's players, optionally with the players of
// the neighbor cells, deduplicated.
func (c *Cell) GetAllPlayers(includeNeighbors bool) []*model.Player {
	return gather(c, includeNeighbors, func(n *Cell) *registry[*model.Player] { return &n.players })
}

// GetAllMobs returns the cell's monsters, optionally with the neighbors'.
func (c *Cell) GetAllMobs(includeNeighbors bool) []*model.Monster {
	return gather(c, includeNeighbors, func(n *Cell) *registry[*model.Monster] { return &n.mobs })
}

// GetAllNpcs returns the cell's NPCs, optionally with the neighbors'.
func (c *Cell) GetAllNpcs(includeNeighbors bool) []*model.Npc {
	return gather(c, includeNeighbors, func(n *Cell) *registry[*model.Npc] { return &n.npcs })
}

// GetAllItems returns the cell's dropped items, optionally with the
// neighbors'.
func (c *Cell) GetAllItems(includeNeighbors bool) []*model.MapItem {
	return gather(c, includeNeighbors, func(n *Cell) *registry[*model.MapItem] { return &n.items })
}

// GetPlayer looks a player up in this cell only.
func (c *Cell) GetPlayer(id uint32) (*model.Player, bool) {
	return c.players.get(id)
}

// GetMob looks a monster up, falling back to the neighbor cells.
func (c *Cell) GetMob(id uint32, includeNeighbors bool) (*model.Monster, bool) {
	return lookup(c, id, includeNeighbors, func(n *Cell) *registry[*model.Monster] { return &n.mobs })
}

// GetNpc looks an NPC up, falling back to the neighbor cells.
func (c *Cell) GetNpc(id uint32, includeNeighbors bool) (*model.Npc, bool) {
	return lookup(c, id, includeNeighbors, func(n *Cell) *registry[*model.Npc] { return &n.npcs })
}

// GetItem looks a dropped item up for requester. An item found but owned
// by someone else is reported as absent. A nil requester only sees
// ownerless items.
func (c *Cell) GetItem(id uint32, requester *model.Player, includeNeighbors bool) (*model.MapItem, bool) {
	item, ok := lookup(c, id, includeNeighbors, func(n *Cell) *registry[*model.MapItem] { return &n.items })
	if !ok {
		return nil, false
	}
	var requesterID uint32
	if requester != nil {
		requesterID = requester.ID()
	}
	if !item.CanPickUp(requesterID) {
		return nil, false
	}
	return item, true
}

// Dispose detaches every entity and clears the registries. Calling it a
// second time is a programming error and panics.
func (c *Cell) Dispose() {
	if !c.disposed.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("Cell.Dispose: cell %d of map %d already disposed", c.index, c.m.ID()))
	}

	c.subs.clear(c)
	c.items.each(func(item *model.MapItem) bool {
		item.StopExpiry()
		return true
	})

	c.players.clear()
	c.mobs.clear()
	c.npcs.clear()
	c.items.clear()
}

// Disposed reports whether Dispose has run.
func (c *Cell) Disposed() bool {
	return c.disposed.Load()
}

type identified interface {
	ID() uint32
}

// gather collects one registry kind from the cell and, optionally, from
// every neighbor (depth 1), skipping duplicates.
func gather[T identified](c *Cell, includeNeighbors bool, reg func(*Cell) *registry[T]) []T {
	if !includeNeighbors {
		return reg(c).values()
	}

	seen := mapset.New[uint32]()
	out := make([]T, 0, 32)
	for _, idx := range c.neighbors {
		reg(c.m.cells[idx]).each(func(v T) bool {
			if !seen.Has(v.ID()) {
				seen.Put(v.ID())
				out = append(out, v)
			}
			return true
		})
	}
	return out
}

func lookup[T any](c *Cell, id uint32, includeNeighbors bool, reg func(*Cell) *registry[T]) (T, bool) {
	if v, ok := reg(c).get(id); ok || !includeNeighbors {
		return v, ok
	}
	for _, idx := range c.neighbors {
		if idx == c.index {
			continue
		}
		if v, ok := reg(c.m.cells[idx]).get(id); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
