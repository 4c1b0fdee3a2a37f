package model

import "time"

// KillRecord is one row of the kill log.
type KillRecord struct {
	MonsterID  uint32
	TemplateID int32
	PlayerID   uint32
	Exp        int64
	GroupSize  int
	KilledAt   time.Time
}
