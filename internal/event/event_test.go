package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_Absorption(t *testing.T) {
	tests := []struct {
		name       string
		ev         Event
		wantTarget uint32
		wantValue  int32
		wantOK     bool
	}{
		{
			name:       "attack with absorb",
			ev:         Event{Kind: KindAttack, Payload: Attack{TargetID: 7, Result: AttackResult{Absorb: 12}}},
			wantTarget: 7, wantValue: 12, wantOK: true,
		},
		{
			name:       "skill with absorb",
			ev:         Event{Kind: KindSkillUsed, Payload: SkillUse{TargetID: 9, Result: AttackResult{Absorb: 3}}},
			wantTarget: 9, wantValue: 3, wantOK: true,
		},
		{
			name:       "attack without absorb",
			ev:         Event{Kind: KindAttack, Payload: Attack{TargetID: 7}},
			wantTarget: 7, wantValue: 0, wantOK: false,
		},
		{
			name: "other payload",
			ev:   Event{Kind: KindMove, Payload: Move{X: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, value, ok := tt.ev.Absorption()
			assert.Equal(t, tt.wantTarget, target)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "player_enter", KindPlayerEnter.String())
	assert.Equal(t, "absorb", KindAbsorb.String())
	assert.Equal(t, "unknown", Kind(9999).String())
	assert.True(t, KindItemRemoved.IsTransition())
	assert.False(t, KindMove.IsTransition())
	assert.Equal(t, "monster", EntityMonster.String())
}

func TestNotifierFunc(t *testing.T) {
	var got []Event
	n := NotifierFunc(func(_ Conn, ev Event) { got = append(got, ev) })

	n.Notify(nil, Event{Kind: KindMove})
	Discard.Notify(nil, Event{Kind: KindMove})

	assert.Len(t, got, 1)
}
