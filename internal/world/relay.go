package world

import (
	"log/slog"

	"github.com/udisondev/zonecell/internal/event"
	"github.com/udisondev/zonecell/internal/model"
)

// Relay receives an event published by an entity attached to this cell
// and fans it out to the players that can see the cell. Events from
// entities no longer in the observer table are dropped.
func (c *Cell) Relay(ev event.Event) {
	if ev.Kind.IsTransition() {
		slog.Warn("entity published a transition notice, dropped", "map", c.m.ID(), "cell", c.index, "kind", ev.Kind, "subject", ev.SubjectID)
		return
	}
	if !c.subs.has(ev.Subject, ev.SubjectID) {
		slog.Debug("event from unsubscribed entity dropped", "map", c.m.ID(), "cell", c.index, "kind", ev.Kind, "subject", ev.SubjectID)
		return
	}

	if ev.Kind == event.KindDeath && ev.Subject == event.EntityMonster {
		c.mobDied(ev)
		return
	}
	c.broadcast(ev)
}

// broadcast sends ev to the visible player set. An attack or skill whose
// result absorbed damage also tells the target how much.
func (c *Cell) broadcast(ev event.Event) {
	targetID, absorbed, hasAbsorb := ev.Absorption()

	for _, p := range c.GetAllPlayers(true) {
		c.m.notify(p, ev)
		if hasAbsorb && p.ID() == targetID {
			c.m.notify(p, event.Event{
				Kind:      event.KindAbsorb,
				Subject:   ev.Subject,
				SubjectID: ev.SubjectID,
				Payload:   event.Absorb{Value: absorbed},
			})
		}
	}
}

// mobDied removes a dead monster, tells the visible players, hands out
// kill credit and schedules the rebirth.
func (c *Cell) mobDied(ev event.Event) {
	mob, ok := c.mobs.get(ev.SubjectID)
	if !ok {
		return
	}

	c.RemoveMob(mob, false)
	mob.ResetCell()
	c.broadcast(ev)

	death, _ := ev.Payload.(event.Death)
	c.m.awardKill(mob, death)

	if c.m.Type() == TypeGuildRanking {
		c.m.AddPoints(mob.Template().GuildPoints)
	}
	if mob.ShouldRebirth() {
		c.m.scheduleRebirth(mob)
	}

	slog.Debug("monster died", "map", c.m.ID(), "cell", c.index, "monster", mob.ID(), "killer", death.KillerID)
}

// awardKill gives the credit for mob to the killing player or, when the
// killer is grouped, to the group members present on this map.
func (m *Map) awardKill(mob *model.Monster, death event.Death) {
	if death.KillerKind != event.EntityPlayer {
		return
	}
	killer, ok := m.Player(death.KillerID)
	if !ok {
		return
	}

	group := killer.Group()
	if group == nil {
		m.rewarder.AwardKill(killer, mob)
		return
	}

	members := make([]*model.Player, 0, 8)
	for _, p := range group.Members() {
		if m.players.has(p.ID()) {
			members = append(members, p)
		}
	}
	m.rewarder.AwardGroupKill(members, mob)
}

// scheduleRebirth brings a clone of mob back after its template delay.
// The clone always carries a fresh id.
func (m *Map) scheduleRebirth(mob *model.Monster) {
	if m.rebirths == nil || m.factory == nil {
		slog.Warn("monster should rebirth but map has no scheduler", "map", m.id, "monster", mob.ID())
		return
	}

	m.pendingRebirths.add(mob.ID(), mob)
	m.rebirths.Schedule(mob.ID(), mob.Template().RebirthDelay, func() {
		if _, ok := m.pendingRebirths.remove(mob.ID()); !ok {
			return
		}
		if m.disposed.Load() {
			return
		}

		clone := m.factory.CloneMonster(mob)
		if err := m.Enter(clone); err != nil {
			slog.Error("monster rebirth failed", "map", m.id, "monster", mob.ID(), "error", err)
			return
		}
		slog.Debug("monster reborn", "map", m.id, "old", mob.ID(), "new", clone.ID())
	})
}
