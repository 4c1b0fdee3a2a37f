package model

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/zonecell/internal/action"
	"github.com/udisondev/zonecell/internal/event"
)

// Faction is the side a player fights for.
type Faction uint8

const (
	FactionNone Faction = iota // matches any faction in filters
	FactionLight
	FactionDark
)

// DefaultActionCooldown is used until SetCooldowns installs per-action values.
const DefaultActionCooldown = time.Second

// Group is a set of players sharing kill credit (party or raid).
type Group interface {
	Members() []*Player
}

// ActionHandler performs a serialized action on behalf of a player.
type ActionHandler func(p *Player, a action.Action)

// Player is a connected character.
type Player struct {
	*Entity

	conn    event.Conn
	faction Faction

	level      atomic.Uint32
	experience atomic.Int64
	dead       atomic.Bool
	target     atomic.Uint32

	playerMu  sync.RWMutex
	group     Group
	partyRole uint8
	cooldowns func(action.Action) time.Duration
	handler   ActionHandler

	actions *action.Serializer
}

// NewPlayer creates a player outside of any cell.
func NewPlayer(id uint32, name string, loc Location, conn event.Conn, faction Faction) *Player {
	p := &Player{
		Entity:  NewEntity(id, event.EntityPlayer, name, loc),
		conn:    conn,
		faction: faction,
		handler: publishAction,
	}
	p.level.Store(1)
	p.actions = action.New(p.performAction, p.actionCooldown)
	return p
}

// Conn returns the delivery handle of this player's client.
func (p *Player) Conn() event.Conn {
	return p.conn
}

// Faction returns the player's side (immutable).
func (p *Player) Faction() Faction {
	return p.faction
}

// Level returns the current level.
func (p *Player) Level() uint16 {
	return uint16(p.level.Load())
}

// Experience returns accumulated experience.
func (p *Player) Experience() int64 {
	return p.experience.Load()
}

// AddExperience adds kill credit.
func (p *Player) AddExperience(exp int64) int64 {
	return p.experience.Add(exp)
}

// IsDead reports whether the player is dead.
func (p *Player) IsDead() bool {
	return p.dead.Load()
}

// Target returns the selected target id (0 if none).
func (p *Player) Target() uint32 {
	return p.target.Load()
}

// SetTarget selects a target.
func (p *Player) SetTarget(id uint32) {
	p.target.Store(id)
}

// Group returns the player's party or raid, nil when alone.
func (p *Player) Group() Group {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.group
}

// PartyRole returns one of the event.PartyRole* values.
func (p *Player) PartyRole() uint8 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.partyRole
}

// SetCooldowns installs the per-action cooldown source.
func (p *Player) SetCooldowns(fn func(action.Action) time.Duration) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.cooldowns = fn
}

// SetActionHandler replaces what a serialized action does.
// The default publishes an Attack or SkillUsed event with an empty result.
func (p *Player) SetActionHandler(h ActionHandler) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.handler = h
}

// RequestAction queues skill number a (action.AutoAttack for a basic attack).
func (p *Player) RequestAction(a action.Action) {
	p.actions.Request(a)
}

// Actions exposes the action serializer.
func (p *Player) Actions() *action.Serializer {
	return p.actions
}

// Dispose stops the action timer. Called when the player is destroyed.
func (p *Player) Dispose() {
	p.actions.Stop()
}

func (p *Player) actionCooldown(a action.Action) time.Duration {
	p.playerMu.RLock()
	fn := p.cooldowns
	p.playerMu.RUnlock()

	if fn == nil {
		return DefaultActionCooldown
	}
	return fn(a)
}

func (p *Player) performAction(a action.Action) {
	if p.IsDead() {
		return
	}

	p.playerMu.RLock()
	h := p.handler
	p.playerMu.RUnlock()

	h(p, a)
}

func publishAction(p *Player, a action.Action) {
	target := p.Target()
	if a == action.AutoAttack {
		p.Attack(target, event.AttackResult{})
		return
	}
	p.UseSkill(event.SkillUse{TargetID: target, Number: int(a)})
}
