package world

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/udisondev/zonecell/internal/event"
	"github.com/udisondev/zonecell/internal/model"
)

var (
	// ErrOutOfBounds is returned for positions outside the map geometry.
	ErrOutOfBounds = errors.New("position outside map")
	// ErrNotOnMap is returned when moving an entity that was never entered.
	ErrNotOnMap = errors.New("entity not on map")
	// ErrMapDisposed is returned by Enter after Dispose.
	ErrMapDisposed = errors.New("map disposed")
)

// Type decides map-wide rules.
type Type uint8

const (
	TypeNormal Type = iota
	// TypeGuildRanking maps collect guild points from monster kills.
	TypeGuildRanking
	// TypeTest maps never relay player events.
	TypeTest
)

func (t Type) String() string {
	switch t {
	case TypeNormal:
		return "normal"
	case TypeGuildRanking:
		return "guild_ranking"
	case TypeTest:
		return "test"
	default:
		return "unknown"
	}
}

// ParseType converts a config value to a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "", "normal":
		return TypeNormal, nil
	case "guild_ranking", "grb":
		return TypeGuildRanking, nil
	case "test":
		return TypeTest, nil
	default:
		return 0, fmt.Errorf("unknown map type %q", s)
	}
}

// Definition describes a map to load.
type Definition struct {
	ID       uint16
	Type     Type
	Name     string
	Geometry Geometry
	// Adjacency optionally overrides the grid neighbor table. When set it
	// must list exactly Geometry.CellCount() cells.
	Adjacency [][]int
}

// Rewarder hands out kill credit. Implementations must not block.
type Rewarder interface {
	AwardKill(killer *model.Player, victim *model.Monster)
	AwardGroupKill(members []*model.Player, victim *model.Monster)
}

// RebirthScheduler runs fn once after delay unless cancelled.
type RebirthScheduler interface {
	Schedule(id uint32, delay time.Duration, fn func())
	Cancel(id uint32) bool
}

// EntityFactory produces fresh entities. CloneMonster must assign a new id.
type EntityFactory interface {
	CloneMonster(m *model.Monster) *model.Monster
}

// Deps are the collaborators a map talks to. A nil Notifier or Rewarder
// is replaced by a no-op; without Rebirths or Factory monsters stay dead.
type Deps struct {
	Notifier event.Notifier
	Rewarder Rewarder
	Rebirths RebirthScheduler
	Factory  EntityFactory
}

// Object is anything a map can hold: *model.Player, *model.Monster,
// *model.Npc or *model.MapItem.
type Object interface {
	ID() uint32
	Kind() event.EntityKind
	Location() model.Location
	SetLocation(loc model.Location)
	CellID() int
	PublishMove(motion uint8)
}

// Map owns the cells of one zone and the services they share.
type Map struct {
	id       uint16
	typ      Type
	name     string
	geometry Geometry
	topology *Topology
	cells    []*Cell // immutable after NewMap

	notifier event.Notifier
	rewarder Rewarder
	rebirths RebirthScheduler
	factory  EntityFactory

	players         registry[*model.Player]  // map-wide index for kill credit
	pendingRebirths registry[*model.Monster] // dead monsters waiting for rebirth
	points          atomic.Int64
	disposed        atomic.Bool
}

// NewMap builds the topology and the cells. A malformed geometry or
// adjacency is a configuration fault and the map is not created.
func NewMap(def Definition, deps Deps) (*Map, error) {
	topology, err := buildTopology(def)
	if err != nil {
		return nil, fmt.Errorf("map %d (%s): %w", def.ID, def.Name, err)
	}

	m := &Map{
		id:       def.ID,
		typ:      def.Type,
		name:     def.Name,
		geometry: def.Geometry,
		topology: topology,
		notifier: deps.Notifier,
		rewarder: deps.Rewarder,
		rebirths: deps.Rebirths,
		factory:  deps.Factory,
	}
	if m.notifier == nil {
		m.notifier = event.Discard
	}
	if m.rewarder == nil {
		m.rewarder = noRewards{}
	}

	m.cells = make([]*Cell, topology.CellCount())
	for i := range m.cells {
		m.cells[i] = newCell(i, topology.Neighbors(i), m)
	}

	slog.Info("map loaded", "map", m.id, "name", m.name, "type", m.typ, "cells", len(m.cells))
	return m, nil
}

func buildTopology(def Definition) (*Topology, error) {
	if len(def.Adjacency) == 0 {
		return NewGridTopology(def.Geometry)
	}
	if err := def.Geometry.Validate(); err != nil {
		return nil, err
	}
	if len(def.Adjacency) != def.Geometry.CellCount() {
		return nil, fmt.Errorf("%w: adjacency lists %d cells, grid has %d",
			ErrMalformedTopology, len(def.Adjacency), def.Geometry.CellCount())
	}
	return NewTopology(def.Adjacency)
}

// ID returns the map id.
func (m *Map) ID() uint16 { return m.id }

// Type returns the map type.
func (m *Map) Type() Type { return m.typ }

// Name returns the map name.
func (m *Map) Name() string { return m.name }

// Geometry returns the map geometry.
func (m *Map) Geometry() Geometry { return m.geometry }

// Topology returns the neighbor table.
func (m *Map) Topology() *Topology { return m.topology }

// Cells returns every cell indexed by cell index.
// IMPORTANT: the returned slice is shared, DO NOT modify.
func (m *Map) Cells() []*Cell {
	return m.cells
}

// Cell returns the cell at idx, nil when out of range.
func (m *Map) Cell(idx int) *Cell {
	return m.cellOrNil(idx)
}

// CellAt returns the cell covering (x, z), clamped to the border.
func (m *Map) CellAt(x, z float32) *Cell {
	return m.cells[m.geometry.CellIndex(x, z)]
}

func (m *Map) cellOrNil(idx int) *Cell {
	if idx < 0 || idx >= len(m.cells) {
		return nil
	}
	return m.cells[idx]
}

// Points returns the guild points collected on a guild ranking map.
func (m *Map) Points() int64 {
	return m.points.Load()
}

// AddPoints adds guild points. Ignored on other map types.
func (m *Map) AddPoints(n int32) int64 {
	if m.typ != TypeGuildRanking {
		return m.points.Load()
	}
	return m.points.Add(int64(n))
}

// Player returns a player present anywhere on the map.
func (m *Map) Player(id uint32) (*model.Player, bool) {
	return m.players.get(id)
}

// Players returns every player on the map.
func (m *Map) Players() []*model.Player {
	return m.players.values()
}

// Enter places obj in the cell covering its location. A player is also
// added to the map-wide index. Entering twice is a no-op.
func (m *Map) Enter(obj Object) error {
	if m.disposed.Load() {
		return ErrMapDisposed
	}
	loc := obj.Location()
	if !m.geometry.Contains(loc.X, loc.Z) {
		return fmt.Errorf("%w: map %d at (%v, %v)", ErrOutOfBounds, m.id, loc.X, loc.Z)
	}

	if p, ok := obj.(*model.Player); ok {
		m.players.add(p.ID(), p)
	}
	m.add(m.CellAt(loc.X, loc.Z), obj)
	return nil
}

// Leave removes obj from the map and tells the players around it.
// Returns false if obj was not on the map.
func (m *Map) Leave(obj Object) bool {
	cell := m.cellOrNil(obj.CellID())
	if p, ok := obj.(*model.Player); ok {
		m.players.remove(p.ID())
	}
	if cell == nil {
		return false
	}
	return m.remove(cell, obj, true)
}

// Move updates obj's position. Crossing a cell boundary removes obj from
// its cell and adds it to the destination, in that order, so the
// transition sees both visible sets. The move itself is then relayed.
// Calls for one entity must not run concurrently.
func (m *Map) Move(obj Object, loc model.Location, motion uint8) error {
	if !m.geometry.Contains(loc.X, loc.Z) {
		return fmt.Errorf("%w: map %d at (%v, %v)", ErrOutOfBounds, m.id, loc.X, loc.Z)
	}
	cur := m.cellOrNil(obj.CellID())
	if cur == nil {
		return fmt.Errorf("%w: %s %d", ErrNotOnMap, obj.Kind(), obj.ID())
	}

	next := m.CellAt(loc.X, loc.Z)
	if next == cur {
		obj.SetLocation(loc)
		obj.PublishMove(motion)
		return nil
	}
	if !m.remove(cur, obj, false) {
		return fmt.Errorf("%w: %s %d", ErrNotOnMap, obj.Kind(), obj.ID())
	}
	obj.SetLocation(loc)
	m.add(next, obj)
	obj.PublishMove(motion)
	return nil
}

func (m *Map) add(c *Cell, obj Object) bool {
	switch v := obj.(type) {
	case *model.Player:
		return c.AddPlayer(v)
	case *model.Monster:
		return c.AddMob(v)
	case *model.Npc:
		return c.AddNpc(v)
	case *model.MapItem:
		return c.AddItem(v)
	default:
		panic(fmt.Sprintf("Map.add: unsupported entity type %T", obj))
	}
}

func (m *Map) remove(c *Cell, obj Object, notify bool) bool {
	switch v := obj.(type) {
	case *model.Player:
		return c.RemovePlayer(v, notify)
	case *model.Monster:
		return c.RemoveMob(v, notify)
	case *model.Npc:
		return c.RemoveNpc(v, notify)
	case *model.MapItem:
		return c.RemoveItem(v.ID(), notify) != nil
	default:
		panic(fmt.Sprintf("Map.remove: unsupported entity type %T", obj))
	}
}

// notify hands ev to the delivery helper for p's connection.
func (m *Map) notify(p *model.Player, ev event.Event) {
	conn := p.Conn()
	if conn == nil {
		return
	}
	m.notifier.Notify(conn, ev)
}

// PendingRebirths returns how many dead monsters wait for rebirth.
func (m *Map) PendingRebirths() int {
	return m.pendingRebirths.len()
}

// Dispose cancels pending rebirths and tears every cell down. Calling it
// twice panics.
func (m *Map) Dispose() {
	if !m.disposed.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("Map.Dispose: map %d already disposed", m.id))
	}

	m.pendingRebirths.each(func(mob *model.Monster) bool {
		if m.rebirths != nil {
			m.rebirths.Cancel(mob.ID())
		}
		return true
	})
	m.pendingRebirths.clear()

	for _, c := range m.cells {
		c.Dispose()
	}
	m.players.clear()

	slog.Info("map disposed", "map", m.id, "name", m.name)
}

type noRewards struct{}

func (noRewards) AwardKill(*model.Player, *model.Monster)        {}
func (noRewards) AwardGroupKill([]*model.Player, *model.Monster) {}
