package event

// Snapshot describes an entity in enter notices.
type Snapshot struct {
	ID      uint32
	Kind    EntityKind
	Name    string
	X, Y, Z float32
	Heading uint16
	New     bool // freshly spawned, not just coming into range
}

type Move struct {
	X, Y, Z float32
	Heading uint16
	Motion  uint8
}

type Motion struct {
	Motion uint8
}

type Equipment struct {
	Slot   uint8
	ItemID int32 // 0 when the slot was emptied
}

// PartyRole values.
const (
	PartyRoleNone uint8 = iota
	PartyRoleMember
	PartyRoleLeader
)

type PartyRole struct {
	Role uint8
}

type Speed struct {
	Attack uint8
	Move   uint8
}

// Damage is produced by the combat module; the core treats it as opaque.
type Damage struct {
	HP, SP, MP int32
}

// AttackResult is produced by the combat module. Absorb is the only field
// the core inspects.
type AttackResult struct {
	Success uint8
	Damage  Damage
	Absorb  int32
}

type SkillUse struct {
	TargetID uint32
	SkillID  uint16
	Level    uint8
	Number   int
	Result   AttackResult
}

type Attack struct {
	TargetID uint32
	Result   AttackResult
}

type Death struct {
	KillerID   uint32
	KillerKind EntityKind
}

type CastStart struct {
	TargetID uint32
	SkillID  uint16
	Level    uint8
}

type ItemUse struct {
	ItemID int32
}

// Resource selects which maximum changed.
type Resource uint8

const (
	ResourceHP Resource = iota
	ResourceMP
	ResourceSP
)

type MaxResource struct {
	Resource Resource
	Value    int32
}

type Recover struct {
	HP, MP, SP int32
}

type BuffApplied struct {
	SkillID uint16
	Level   uint8
	Result  AttackResult
}

type Shape struct {
	Shape  uint8
	Param1 int32
	Param2 int32
}

type Appearance struct {
	Hair, Face, Size, Gender uint8
}

type VehiclePassenger struct {
	PassengerID uint32
}

type LevelChange struct {
	Level   uint16
	Forced  bool // party members and admin changes get the full refresh
	ByAdmin bool
}

type Teleport struct {
	MapID   uint16
	X, Y, Z float32
	ByAdmin bool
}

type Absorb struct {
	Value int32
}

// Rebirth carries the snapshot the observers redraw the entity from.
type Rebirth struct {
	Snapshot Snapshot
}
