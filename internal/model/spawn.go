package model

import "fmt"

// SpawnKind says what a spawn point produces.
type SpawnKind uint8

const (
	SpawnMonster SpawnKind = iota
	SpawnNpc
)

func (k SpawnKind) String() string {
	switch k {
	case SpawnMonster:
		return "monster"
	case SpawnNpc:
		return "npc"
	default:
		return "unknown"
	}
}

// ParseSpawnKind converts the stored kind name.
func ParseSpawnKind(s string) (SpawnKind, error) {
	switch s {
	case "monster":
		return SpawnMonster, nil
	case "npc":
		return SpawnNpc, nil
	default:
		return 0, fmt.Errorf("unknown spawn kind %q", s)
	}
}

// Spawn is a stored spawn point: what to place on which map, where, and
// how many.
type Spawn struct {
	ID       int64
	MapID    uint16
	Kind     SpawnKind
	Location Location
	Count    int32

	// Monster spawns.
	TemplateID int32

	// NPC spawns.
	NpcType   uint8
	NpcTypeID uint16
	Name      string
}
