package world

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/zonecell/internal/event"
	"github.com/udisondev/zonecell/internal/model"
)

var (
	enterKinds = map[event.EntityKind]event.Kind{
		event.EntityPlayer:  event.KindPlayerEnter,
		event.EntityMonster: event.KindMobEnter,
		event.EntityNpc:     event.KindNpcEnter,
		event.EntityItem:    event.KindItemAdded,
	}
	leaveKinds = map[event.EntityKind]event.Kind{
		event.EntityPlayer:  event.KindPlayerLeave,
		event.EntityMonster: event.KindMobLeave,
		event.EntityNpc:     event.KindNpcLeave,
		event.EntityItem:    event.KindItemRemoved,
	}
)

// enterEvent announces e. fresh marks a first appearance in the world.
func enterEvent(e *model.Entity, fresh bool) event.Event {
	snap := e.Snapshot()
	snap.New = fresh
	return event.Event{
		Kind:      enterKinds[e.Kind()],
		Subject:   e.Kind(),
		SubjectID: e.ID(),
		Payload:   snap,
	}
}

func leaveEvent(kind event.EntityKind, id uint32) event.Event {
	return event.Event{
		Kind:      leaveKinds[kind],
		Subject:   kind,
		SubjectID: id,
	}
}

// entityOf exposes the shared record embedded in every actor.
type entityOf interface {
	identified
	Kind() event.EntityKind
	Snapshot() event.Snapshot
}

// playerTransition runs the interest transition for p, which just joined
// c coming from cell old (model.NoCell on first appearance).
//
// Players only visible from the old cell and p forget each other; players
// only visible from the new cell and p learn about each other. p is told
// about itself only on first appearance. Monsters, NPCs and items get the
// same diff from p's viewpoint.
func (c *Cell) playerTransition(p *model.Player, old int) {
	m := c.m
	from := m.cellOrNil(old)
	first := old == model.NoCell

	var oldPlayers []*model.Player
	if from != nil {
		oldPlayers = from.GetAllPlayers(true)
	}
	newPlayers := c.GetAllPlayers(true)

	diffVisible(oldPlayers, newPlayers,
		func(o *model.Player) {
			if o.ID() == p.ID() {
				return
			}
			m.notify(o, leaveEvent(event.EntityPlayer, p.ID()))
			m.notify(p, leaveEvent(event.EntityPlayer, o.ID()))
		},
		func(o *model.Player) {
			if o.ID() == p.ID() {
				if first {
					m.notify(p, enterEvent(p.Entity, true))
				}
				return
			}
			m.notify(o, enterEvent(p.Entity, first))
			m.notify(p, enterEvent(o.Entity, false))
		},
	)

	var (
		oldMobs  []*model.Monster
		oldNpcs  []*model.Npc
		oldItems []*model.MapItem
	)
	if from != nil {
		oldMobs = from.GetAllMobs(true)
		oldNpcs = from.GetAllNpcs(true)
		oldItems = from.GetAllItems(true)
	}
	viewerDiff(m, p, oldMobs, c.GetAllMobs(true))
	viewerDiff(m, p, oldNpcs, c.GetAllNpcs(true))
	viewerDiff(m, p, oldItems, c.GetAllItems(true))
}

// objectTransition runs the interest transition for a non-player entity
// that just joined c coming from cell old.
func (c *Cell) objectTransition(e *model.Entity, old int) {
	m := c.m
	first := old == model.NoCell

	var oldPlayers []*model.Player
	if from := m.cellOrNil(old); from != nil {
		oldPlayers = from.GetAllPlayers(true)
	}

	diffVisible(oldPlayers, c.GetAllPlayers(true),
		func(o *model.Player) { m.notify(o, leaveEvent(e.Kind(), e.ID())) },
		func(o *model.Player) { m.notify(o, enterEvent(e, first)) },
	)
}

// viewerDiff tells viewer about entities that came into or went out of
// its range.
func viewerDiff[T entityOf](m *Map, viewer *model.Player, before, after []T) {
	diffVisible(before, after,
		func(v T) { m.notify(viewer, leaveEvent(v.Kind(), v.ID())) },
		func(v T) {
			m.notify(viewer, event.Event{
				Kind:      enterKinds[v.Kind()],
				Subject:   v.Kind(),
				SubjectID: v.ID(),
				Payload:   v.Snapshot(),
			})
		},
	)
}

// broadcastLeave tells every player that can see this cell that e is gone.
func (c *Cell) broadcastLeave(e *model.Entity) {
	ev := leaveEvent(e.Kind(), e.ID())
	for _, p := range c.GetAllPlayers(true) {
		if p.ID() == e.ID() {
			continue
		}
		c.m.notify(p, ev)
	}
}

// diffVisible calls leave for every entry only in before and enter for
// every entry only in after. Identical sets produce no calls.
func diffVisible[T identified](before, after []T, leave, enter func(T)) {
	beforeIDs := idSet(before)
	afterIDs := idSet(after)

	for _, v := range before {
		if !afterIDs.Has(v.ID()) {
			leave(v)
		}
	}
	for _, v := range after {
		if !beforeIDs.Has(v.ID()) {
			enter(v)
		}
	}
}

func idSet[T identified](vs []T) mapset.Set[uint32] {
	s := mapset.New[uint32]()
	for _, v := range vs {
		s.Put(v.ID())
	}
	return s
}
