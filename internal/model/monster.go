package model

import (
	"sync/atomic"
	"time"

	"github.com/udisondev/zonecell/internal/event"
)

// MonsterTemplate is the static description a monster is spawned from.
type MonsterTemplate struct {
	ID            int32
	Name          string
	Level         uint16
	MaxHP         int32
	Exp           int32
	GuildPoints   int32
	ShouldRebirth bool
	RebirthDelay  time.Duration
}

// Monster is a hostile NPC (mob).
type Monster struct {
	*Entity

	template *MonsterTemplate
	origin   Location

	hp     atomic.Int32
	dead   atomic.Bool
	target atomic.Uint32 // current combat target id, 0 if none
}

// NewMonster creates a monster at origin. Panics on nil template.
func NewMonster(id uint32, template *MonsterTemplate, origin Location) *Monster {
	if template == nil {
		panic("NewMonster: template cannot be nil")
	}

	m := &Monster{
		Entity:   NewEntity(id, event.EntityMonster, template.Name, origin),
		template: template,
		origin:   origin,
	}
	m.hp.Store(template.MaxHP)
	return m
}

// Template returns the spawn template (shared, read-only).
func (m *Monster) Template() *MonsterTemplate {
	return m.template
}

// Origin returns the spawn position.
func (m *Monster) Origin() Location {
	return m.origin
}

// ShouldRebirth reports whether the monster respawns after death.
func (m *Monster) ShouldRebirth() bool {
	return m.template.ShouldRebirth
}

// HP returns current hit points.
func (m *Monster) HP() int32 {
	return m.hp.Load()
}

// IsDead reports whether the monster is dead.
func (m *Monster) IsDead() bool {
	return m.dead.Load()
}

// Target returns the current combat target id (0 if none).
func (m *Monster) Target() uint32 {
	return m.target.Load()
}

// SetTarget sets the current combat target.
func (m *Monster) SetTarget(id uint32) {
	m.target.Store(id)
}

// ClearTarget drops the current target.
func (m *Monster) ClearTarget() {
	m.target.Store(0)
}

// ClearTargetIf drops the target only if it is id.
func (m *Monster) ClearTargetIf(id uint32) bool {
	return m.target.CompareAndSwap(id, 0)
}

// ReceiveDamage lowers HP and kills the monster when it reaches zero.
// Returns true if this call killed it.
func (m *Monster) ReceiveDamage(amount int32, killerID uint32, killerKind event.EntityKind) bool {
	if m.IsDead() {
		return false
	}
	if m.hp.Add(-amount) > 0 {
		return false
	}
	return m.Die(killerID, killerKind)
}

// Die marks the monster dead once and announces it.
func (m *Monster) Die(killerID uint32, killerKind event.EntityKind) bool {
	if !m.dead.CompareAndSwap(false, true) {
		return false
	}
	m.hp.Store(0)
	m.ClearTarget()
	m.Publish(m.newEvent(event.KindDeath, event.Death{KillerID: killerID, KillerKind: killerKind}))
	return true
}

// Attack announces a basic attack on targetID.
func (m *Monster) Attack(targetID uint32, result event.AttackResult) {
	m.Publish(m.newEvent(event.KindAttack, event.Attack{TargetID: targetID, Result: result}))
}

// UseSkill announces a skill use.
func (m *Monster) UseSkill(use event.SkillUse) {
	m.Publish(m.newEvent(event.KindSkillUsed, use))
}

// Recover announces restored HP.
func (m *Monster) Recover(hp int32) {
	m.Publish(m.newEvent(event.KindRecover, event.Recover{HP: hp}))
}
