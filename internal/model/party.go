package model

import (
	"fmt"
	"sync"

	"github.com/udisondev/zonecell/internal/event"
)

// MaxPartyMembers is the maximum party size including the leader.
const MaxPartyMembers = 7

// Party is a group of players sharing kill credit.
// Thread-safe: all methods acquire the internal mutex.
type Party struct {
	mu      sync.RWMutex
	id      int32
	leader  *Player
	members []*Player // leader is always members[0]
}

var _ Group = (*Party)(nil)

// NewParty creates a party led by leader and announces the leader role.
func NewParty(id int32, leader *Player) *Party {
	p := &Party{
		id:      id,
		leader:  leader,
		members: make([]*Player, 0, MaxPartyMembers),
	}
	p.members = append(p.members, leader)
	leader.SetGroup(p, event.PartyRoleLeader)
	return p
}

// ID returns the immutable party id.
func (p *Party) ID() int32 {
	return p.id
}

// Leader returns the current leader.
func (p *Party) Leader() *Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.leader
}

// Members returns a snapshot copy of the member list.
func (p *Party) Members() []*Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make([]*Player, len(p.members))
	copy(result, p.members)
	return result
}

// MemberCount returns the number of members.
func (p *Party) MemberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.members)
}

// AddMember adds a player to the party.
// Returns error if the party is full or the player is already a member.
func (p *Party) AddMember(player *Player) error {
	p.mu.Lock()
	if len(p.members) >= MaxPartyMembers {
		p.mu.Unlock()
		return fmt.Errorf("party full (max %d members)", MaxPartyMembers)
	}
	for _, m := range p.members {
		if m.ID() == player.ID() {
			p.mu.Unlock()
			return fmt.Errorf("player %s already in party", player.Name())
		}
	}
	p.members = append(p.members, player)
	p.mu.Unlock()

	player.SetGroup(p, event.PartyRoleMember)
	return nil
}

// RemoveMember removes a player. If the leader leaves, the next member
// becomes leader. Returns true if fewer than 2 members remain.
func (p *Party) RemoveMember(id uint32) bool {
	p.mu.Lock()
	idx := -1
	for i, m := range p.members {
		if m.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		p.mu.Unlock()
		return false
	}

	removed := p.members[idx]
	p.members = append(p.members[:idx], p.members[idx+1:]...)

	var promoted *Player
	if p.leader.ID() == id && len(p.members) > 0 {
		p.leader = p.members[0]
		promoted = p.leader
	}
	disband := len(p.members) < 2
	p.mu.Unlock()

	removed.SetGroup(nil, event.PartyRoleNone)
	if promoted != nil {
		promoted.SetGroup(p, event.PartyRoleLeader)
	}
	return disband
}
