package model

import "github.com/udisondev/zonecell/internal/event"

// Raise methods for the relayed state-change catalog. Each one publishes to
// the player's current cell, which fans the notice out to its visible set.

// Motion announces a motion or emote change.
func (p *Player) Motion(motion uint8) {
	p.Publish(p.newEvent(event.KindMotion, event.Motion{Motion: motion}))
}

// ChangeEquipment announces the item now shown in an equipment slot.
func (p *Player) ChangeEquipment(slot uint8, itemID int32) {
	p.Publish(p.newEvent(event.KindEquipment, event.Equipment{Slot: slot, ItemID: itemID}))
}

// SetGroup changes the party membership and role and announces the role.
func (p *Player) SetGroup(g Group, role uint8) {
	p.playerMu.Lock()
	p.group = g
	p.partyRole = role
	p.playerMu.Unlock()

	p.Publish(p.newEvent(event.KindPartyRole, event.PartyRole{Role: role}))
}

// ChangeSpeed announces new attack and movement speeds.
func (p *Player) ChangeSpeed(attack, move uint8) {
	p.Publish(p.newEvent(event.KindSpeed, event.Speed{Attack: attack, Move: move}))
}

// UseSkill announces a targeted skill use.
func (p *Player) UseSkill(use event.SkillUse) {
	p.Publish(p.newEvent(event.KindSkillUsed, use))
}

// UseRangeSkill announces an area skill use.
func (p *Player) UseRangeSkill(use event.SkillUse) {
	p.Publish(p.newEvent(event.KindRangeSkillUsed, use))
}

// Attack announces a basic attack on targetID.
func (p *Player) Attack(targetID uint32, result event.AttackResult) {
	p.Publish(p.newEvent(event.KindAttack, event.Attack{TargetID: targetID, Result: result}))
}

// Die marks the player dead once and announces it. Returns false if the
// player was already dead.
func (p *Player) Die(killerID uint32, killerKind event.EntityKind) bool {
	if !p.dead.CompareAndSwap(false, true) {
		return false
	}
	p.Publish(p.newEvent(event.KindDeath, event.Death{KillerID: killerID, KillerKind: killerKind}))
	return true
}

// StartCast announces the start of a skill cast.
func (p *Player) StartCast(targetID uint32, skillID uint16, level uint8) {
	p.Publish(p.newEvent(event.KindCastStart, event.CastStart{TargetID: targetID, SkillID: skillID, Level: level}))
}

// UseItem announces a consumed item.
func (p *Player) UseItem(itemID int32) {
	p.Publish(p.newEvent(event.KindItemUsed, event.ItemUse{ItemID: itemID}))
}

// SetMaxResource announces a new maximum for an HP, MP or SP pool.
func (p *Player) SetMaxResource(res event.Resource, value int32) {
	p.Publish(p.newEvent(event.KindMaxResource, event.MaxResource{Resource: res, Value: value}))
}

// Recover announces restored HP, MP and SP.
func (p *Player) Recover(hp, mp, sp int32) {
	p.Publish(p.newEvent(event.KindRecover, event.Recover{HP: hp, MP: mp, SP: sp}))
}

// ApplyBuff announces a buff landing on the player.
func (p *Player) ApplyBuff(skillID uint16, level uint8, result event.AttackResult) {
	p.Publish(p.newEvent(event.KindBuffApplied, event.BuffApplied{SkillID: skillID, Level: level, Result: result}))
}

// ChangeShape announces a transformation.
func (p *Player) ChangeShape(shape uint8, param1, param2 int32) {
	p.Publish(p.newEvent(event.KindShape, event.Shape{Shape: shape, Param1: param1, Param2: param2}))
}

// Rebirth revives a dead player in place.
func (p *Player) Rebirth() bool {
	if !p.dead.CompareAndSwap(true, false) {
		return false
	}
	p.Publish(p.newEvent(event.KindRebirth, event.Rebirth{Snapshot: p.Snapshot()}))
	return true
}

// ChangeAppearance announces a new look.
func (p *Player) ChangeAppearance(hair, face, size, gender uint8) {
	p.Publish(p.newEvent(event.KindAppearance, event.Appearance{Hair: hair, Face: face, Size: size, Gender: gender}))
}

// SummonVehicle announces a summoned vehicle.
func (p *Player) SummonVehicle() {
	p.Publish(p.newEvent(event.KindVehicleSummon, nil))
}

// SetVehiclePassenger announces who rides along.
func (p *Player) SetVehiclePassenger(passengerID uint32) {
	p.Publish(p.newEvent(event.KindVehiclePassenger, event.VehiclePassenger{PassengerID: passengerID}))
}

// LevelUp raises the level by one. Party members get the forced refresh.
func (p *Player) LevelUp() {
	level := uint16(p.level.Add(1))
	p.Publish(p.newEvent(event.KindLevelUp, event.LevelChange{Level: level, Forced: p.Group() != nil}))
}

// AdminSetLevel sets the level directly.
func (p *Player) AdminSetLevel(level uint16) {
	p.level.Store(uint32(level))
	p.Publish(p.newEvent(event.KindLevelUp, event.LevelChange{Level: level, Forced: true, ByAdmin: true}))
}

// Teleport announces a teleport. Moving the player to the destination map
// and cell is up to the caller.
func (p *Player) Teleport(mapID uint16, x, y, z float32, byAdmin bool) {
	p.Publish(p.newEvent(event.KindTeleport, event.Teleport{MapID: mapID, X: x, Y: y, Z: z, ByAdmin: byAdmin}))
}
