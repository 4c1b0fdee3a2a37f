package event

// EntityKind identifies what sort of world entity an event is about.
type EntityKind uint8

const (
	EntityPlayer EntityKind = iota + 1
	EntityMonster
	EntityNpc
	EntityItem
)

func (k EntityKind) String() string {
	switch k {
	case EntityPlayer:
		return "player"
	case EntityMonster:
		return "monster"
	case EntityNpc:
		return "npc"
	case EntityItem:
		return "item"
	default:
		return "unknown"
	}
}

// Kind is the notice type delivered to an observer.
type Kind uint16

// Transition notices (computed by the cell when membership changes).
const (
	KindPlayerEnter Kind = iota + 1
	KindPlayerLeave
	KindMobEnter
	KindMobLeave
	KindNpcEnter
	KindNpcLeave
	KindItemAdded
	KindItemRemoved
)

// Relayed state changes (published by an entity, fanned out by its cell).
const (
	KindMove Kind = iota + 100
	KindMotion
	KindEquipment
	KindPartyRole
	KindSpeed
	KindSkillUsed
	KindRangeSkillUsed
	KindAttack
	KindDeath
	KindCastStart
	KindItemUsed
	KindMaxResource
	KindRecover
	KindBuffApplied
	KindShape
	KindRebirth
	KindAppearance
	KindVehicleSummon
	KindVehiclePassenger
	KindLevelUp
	KindTeleport
	KindAbsorb
)

var kindNames = map[Kind]string{
	KindPlayerEnter:      "player_enter",
	KindPlayerLeave:      "player_leave",
	KindMobEnter:         "mob_enter",
	KindMobLeave:         "mob_leave",
	KindNpcEnter:         "npc_enter",
	KindNpcLeave:         "npc_leave",
	KindItemAdded:        "item_added",
	KindItemRemoved:      "item_removed",
	KindMove:             "move",
	KindMotion:           "motion",
	KindEquipment:        "equipment",
	KindPartyRole:        "party_role",
	KindSpeed:            "speed",
	KindSkillUsed:        "skill_used",
	KindRangeSkillUsed:   "range_skill_used",
	KindAttack:           "attack",
	KindDeath:            "death",
	KindCastStart:        "cast_start",
	KindItemUsed:         "item_used",
	KindMaxResource:      "max_resource",
	KindRecover:          "recover",
	KindBuffApplied:      "buff_applied",
	KindShape:            "shape",
	KindRebirth:          "rebirth",
	KindAppearance:       "appearance",
	KindVehicleSummon:    "vehicle_summon",
	KindVehiclePassenger: "vehicle_passenger",
	KindLevelUp:          "level_up",
	KindTeleport:         "teleport",
	KindAbsorb:           "absorb",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsTransition reports whether k is an enter/leave notice.
func (k Kind) IsTransition() bool {
	return k >= KindPlayerEnter && k <= KindItemRemoved
}
