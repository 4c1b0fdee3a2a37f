package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonecell/internal/event"
	"github.com/udisondev/zonecell/internal/model"
)

func TestCell_MobSpawnSeenOnceThroughTwoPaths(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	p, conn := f.player(t, "P", at(4))
	f.notifier.Reset()

	mob := f.mob(t, at(6), nil)

	got := notices(f.notifier, conn)
	assert.Equal(t, map[noticeKey]int{{event.KindMobEnter, mob.ID()}: 1}, got)

	evs := f.notifier.For(conn)
	require.Len(t, evs, 1)
	snap := evs[0].Payload.(event.Snapshot)
	assert.True(t, snap.New, "spawn is a first appearance")
	assert.Equal(t, event.EntityMonster, snap.Kind)
	assert.Equal(t, 4, p.CellID())
}

func TestCell_MoveBetweenDisjointCells(t *testing.T) {
	f := newStripFixture(t, TypeNormal)

	a, connA := f.player(t, "A", at(1))
	b, connB := f.player(t, "B", at(2))
	c, connC := f.player(t, "C", at(10))
	d, connD := f.player(t, "D", at(9))
	_, connE := f.player(t, "E", at(5))
	p, connP := f.player(t, "P", at(1))
	f.notifier.Reset()

	require.NoError(t, f.m.Move(p, at(9), 0))

	assert.Equal(t, 9, p.CellID())
	assert.Equal(t, 1, p.OldCellID())

	assert.Equal(t, map[noticeKey]int{{event.KindPlayerLeave, p.ID()}: 1}, notices(f.notifier, connA))
	assert.Equal(t, map[noticeKey]int{{event.KindPlayerLeave, p.ID()}: 1}, notices(f.notifier, connB))
	assert.Equal(t, map[noticeKey]int{{event.KindPlayerEnter, p.ID()}: 1}, notices(f.notifier, connC))
	assert.Equal(t, map[noticeKey]int{{event.KindPlayerEnter, p.ID()}: 1}, notices(f.notifier, connD))
	assert.Empty(t, f.notifier.For(connE))

	assert.Equal(t, map[noticeKey]int{
		{event.KindPlayerLeave, a.ID()}: 1,
		{event.KindPlayerLeave, b.ID()}: 1,
		{event.KindPlayerEnter, c.ID()}: 1,
		{event.KindPlayerEnter, d.ID()}: 1,
	}, notices(f.notifier, connP), "the mover gets the mirror notices and no self-enter")

	// The move itself reaches the new neighborhood only.
	assert.Equal(t, 1, f.notifier.Count(connC, event.KindMove, p.ID()))
	assert.Equal(t, 1, f.notifier.Count(connP, event.KindMove, p.ID()))
	assert.Zero(t, f.notifier.Count(connA, event.KindMove, p.ID()))
}

func TestCell_MoveWithOverlapSkipsSharedObservers(t *testing.T) {
	f := newStripFixture(t, TypeNormal)

	_, connShared := f.player(t, "shared", at(6))
	p, connP := f.player(t, "P", at(4))
	f.notifier.Reset()

	require.NoError(t, f.m.Move(p, at(5), 1))

	assert.Empty(t, notices(f.notifier, connShared))
	assert.Empty(t, notices(f.notifier, connP))

	evs := f.notifier.For(connShared)
	require.Len(t, evs, 1)
	assert.Equal(t, event.KindMove, evs[0].Kind)
	assert.Equal(t, uint8(1), evs[0].Payload.(event.Move).Motion)
}

func TestCell_MoveInsideCellSendsNoTransition(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	_, conn := f.player(t, "O", at(3))
	p, _ := f.player(t, "P", at(3))
	f.notifier.Reset()

	loc := at(3)
	loc.X += 2
	require.NoError(t, f.m.Move(p, loc, 0))

	assert.Empty(t, notices(f.notifier, conn))
	assert.Equal(t, 1, f.notifier.Count(conn, event.KindMove, p.ID()))
	assert.Equal(t, 3, p.CellID())
	assert.Equal(t, model.NoCell, p.OldCellID(), "no reassignment without a boundary crossing")
}

func TestCell_FirstSpawn(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	o1, conn1 := f.player(t, "O1", at(9))
	o2, conn2 := f.player(t, "O2", at(10))
	mob := f.mob(t, at(10), nil)
	f.notifier.Reset()

	p, connP := f.player(t, "P", at(9))

	assert.Equal(t, map[noticeKey]int{{event.KindPlayerEnter, p.ID()}: 1}, notices(f.notifier, conn1))
	assert.Equal(t, map[noticeKey]int{{event.KindPlayerEnter, p.ID()}: 1}, notices(f.notifier, conn2))
	assert.Equal(t, map[noticeKey]int{
		{event.KindPlayerEnter, p.ID()}:  1,
		{event.KindPlayerEnter, o1.ID()}: 1,
		{event.KindPlayerEnter, o2.ID()}: 1,
		{event.KindMobEnter, mob.ID()}:   1,
	}, notices(f.notifier, connP), "first appearance includes exactly one self-enter")

	for _, ev := range f.notifier.For(conn1) {
		assert.True(t, ev.Payload.(event.Snapshot).New)
	}
}

func TestCell_SelfEnterOnlyOnFirstAppearance(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	p, conn := f.player(t, "P", at(0))
	assert.Equal(t, 1, f.notifier.Count(conn, event.KindPlayerEnter, p.ID()))

	require.NoError(t, f.m.Move(p, at(3), 0))
	require.NoError(t, f.m.Move(p, at(7), 0))
	assert.Equal(t, 1, f.notifier.Count(conn, event.KindPlayerEnter, p.ID()))

	// Leaving and coming back is a new first appearance.
	require.True(t, f.m.Leave(p))
	require.NoError(t, f.m.Enter(p))
	assert.Equal(t, 2, f.notifier.Count(conn, event.KindPlayerEnter, p.ID()))
}

func TestCell_IdempotentInsertAndRemove(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	_, conn := f.player(t, "O", at(5))
	p, _ := f.player(t, "P", at(5))
	cell := f.m.Cell(5)

	before := f.notifier.Len()
	assert.False(t, cell.AddPlayer(p))
	assert.Equal(t, before, f.notifier.Len())
	assert.Len(t, cell.GetAllPlayers(false), 2)

	assert.True(t, cell.RemovePlayer(p, true))
	assert.False(t, cell.RemovePlayer(p, true))
	assert.Equal(t, 1, f.notifier.Count(conn, event.KindPlayerLeave, p.ID()))

	mob := f.mob(t, at(5), nil)
	assert.False(t, cell.AddMob(mob))
	assert.Equal(t, 1, f.notifier.Count(conn, event.KindMobEnter, mob.ID()))
}

func TestCell_RemovePlayerClearsMobTargets(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	p, _ := f.player(t, "P", at(4))
	near := f.mob(t, at(6), nil)
	other := f.mob(t, at(5), nil)
	near.SetTarget(p.ID())
	other.SetTarget(12345)

	require.True(t, f.m.Leave(p))

	assert.Zero(t, near.Target())
	assert.Equal(t, uint32(12345), other.Target())
	assert.Equal(t, model.NoCell, p.CellID())
	_, ok := f.m.Player(p.ID())
	assert.False(t, ok)
}

func TestCell_RemoveWithoutNotify(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	_, conn := f.player(t, "O", at(1))
	mob := f.mob(t, at(2), nil)
	f.notifier.Reset()

	assert.True(t, f.m.Cell(2).RemoveMob(mob, false))
	assert.Empty(t, f.notifier.For(conn))
	assert.Equal(t, 2, mob.CellID(), "markers survive a silent remove")
}

func TestCell_RelayFansOutToVisiblePlayers(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	p, connP := f.player(t, "P", at(4))
	_, connNear := f.player(t, "near", at(6))
	_, connFar := f.player(t, "far", at(9))
	f.notifier.Reset()

	p.Motion(2)
	p.ChangeEquipment(1, 500)

	assert.Equal(t, 1, f.notifier.Count(connNear, event.KindMotion, p.ID()))
	assert.Equal(t, 1, f.notifier.Count(connNear, event.KindEquipment, p.ID()))
	assert.Equal(t, 1, f.notifier.Count(connP, event.KindMotion, p.ID()))
	assert.Empty(t, f.notifier.For(connFar))
}

func TestCell_AbsorbOnlyToTarget(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	target, connTarget := f.player(t, "T", at(5))
	_, connOther := f.player(t, "O", at(5))
	mob := f.mob(t, at(5), nil)
	f.notifier.Reset()

	mob.Attack(target.ID(), event.AttackResult{Absorb: 17})

	assert.Equal(t, 1, f.notifier.Count(connTarget, event.KindAttack, mob.ID()))
	assert.Equal(t, 1, f.notifier.Count(connOther, event.KindAttack, mob.ID()))
	assert.Zero(t, f.notifier.CountKind(connOther, event.KindAbsorb))

	absorbs := 0
	for _, ev := range f.notifier.For(connTarget) {
		if ev.Kind == event.KindAbsorb {
			absorbs++
			assert.Equal(t, event.Absorb{Value: 17}, ev.Payload)
		}
	}
	assert.Equal(t, 1, absorbs)
}

func TestCell_NoBroadcastAfterRemoval(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	_, conn := f.player(t, "O", at(5))
	p, _ := f.player(t, "P", at(5))

	require.True(t, f.m.Leave(p))
	f.notifier.Reset()

	p.Motion(1)
	f.m.Cell(5).Relay(event.Event{Kind: event.KindMotion, Subject: event.EntityPlayer, SubjectID: p.ID()})

	assert.Empty(t, f.notifier.For(conn))
	assert.False(t, p.Attached())
}

func TestCell_TransitionKindsAreNotRelayed(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	_, conn := f.player(t, "O", at(5))
	p, _ := f.player(t, "P", at(5))
	f.notifier.Reset()

	p.Publish(event.Event{Kind: event.KindPlayerEnter, Subject: event.EntityPlayer, SubjectID: p.ID()})
	assert.Empty(t, f.notifier.For(conn))
}

func TestCell_TestMapSkipsPlayerRelays(t *testing.T) {
	f := newStripFixture(t, TypeTest)
	_, conn := f.player(t, "O", at(5))
	p, _ := f.player(t, "P", at(5))
	f.notifier.Reset()

	p.Motion(1)
	assert.False(t, p.Attached())
	assert.Empty(t, f.notifier.For(conn))

	mob := f.mob(t, at(5), nil)
	mob.Recover(10)
	assert.Equal(t, 1, f.notifier.Count(conn, event.KindRecover, mob.ID()))
}

func TestCell_GetItemOwnership(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	owner, connOwner := f.player(t, "owner", at(1))
	stranger, _ := f.player(t, "stranger", at(1))
	f.notifier.Reset()

	item := model.NewMapItem(0x40000001, 57, 100, owner.ID(), at(2))
	require.NoError(t, f.m.Enter(item))
	assert.Equal(t, 1, f.notifier.Count(connOwner, event.KindItemAdded, item.ID()))

	cell := f.m.Cell(1)
	got, ok := cell.GetItem(item.ID(), owner, true)
	require.True(t, ok)
	assert.Same(t, item, got)

	_, ok = cell.GetItem(item.ID(), stranger, true)
	assert.False(t, ok)
	_, ok = cell.GetItem(item.ID(), owner, false)
	assert.False(t, ok, "item lies in the neighbor cell")

	removed := f.m.Cell(2).RemoveItem(item.ID(), true)
	assert.Same(t, item, removed)
	assert.Equal(t, 1, f.notifier.Count(connOwner, event.KindItemRemoved, item.ID()))
	assert.Nil(t, f.m.Cell(2).RemoveItem(item.ID(), true))
}

func TestCell_MovingPlayerSeesItemsAndNpcs(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	npc := model.NewNpc(0x30000001, 1, 7, "Merchant", at(10))
	item := model.NewMapItem(0x40000002, 57, 1, 0, at(9))
	require.NoError(t, f.m.Enter(npc))
	require.NoError(t, f.m.Enter(item))

	p, conn := f.player(t, "P", at(0))
	f.notifier.Reset()

	require.NoError(t, f.m.Move(p, at(9), 0))
	assert.Equal(t, map[noticeKey]int{
		{event.KindNpcEnter, npc.ID()}:    1,
		{event.KindItemAdded, item.ID()}: 1,
	}, notices(f.notifier, conn))

	require.NoError(t, f.m.Move(p, at(0), 0))
	assert.Equal(t, 1, f.notifier.Count(conn, event.KindNpcLeave, npc.ID()))
	assert.Equal(t, 1, f.notifier.Count(conn, event.KindItemRemoved, item.ID()))
}

func TestCell_RemoveNpcsByType(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	_, conn := f.player(t, "O", at(3))
	for i := range 3 {
		require.NoError(t, f.m.Enter(model.NewNpc(0x30000010+uint32(i), 2, 9, "Guard", at(3))))
	}
	require.NoError(t, f.m.Enter(model.NewNpc(0x30000020, 2, 8, "Other", at(3))))
	f.notifier.Reset()

	cell := f.m.Cell(3)
	assert.Equal(t, 2, cell.RemoveNpcs(2, 9, 2))
	assert.Len(t, cell.GetAllNpcs(false), 2)
	assert.Equal(t, 2, f.notifier.CountKind(conn, event.KindNpcLeave))

	assert.Equal(t, 1, cell.RemoveNpcs(2, 9, 5))
	assert.Zero(t, cell.RemoveNpcs(2, 9, 5))
}

func TestCell_GetMobNeighborFallback(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	mob := f.mob(t, at(6), nil)

	_, ok := f.m.Cell(4).GetMob(mob.ID(), false)
	assert.False(t, ok)
	got, ok := f.m.Cell(4).GetMob(mob.ID(), true)
	require.True(t, ok)
	assert.Same(t, mob, got)

	_, ok = f.m.Cell(9).GetMob(mob.ID(), true)
	assert.False(t, ok)
}

func TestCell_DisposeTwicePanics(t *testing.T) {
	f := newStripFixture(t, TypeNormal)
	p, _ := f.player(t, "P", at(5))
	cell := f.m.Cell(5)

	cell.Dispose()
	assert.True(t, cell.Disposed())
	assert.False(t, p.Attached())
	assert.Empty(t, cell.GetAllPlayers(false))

	assert.Panics(t, cell.Dispose)
}
