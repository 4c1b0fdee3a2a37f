package world

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonecell/internal/event"
	"github.com/udisondev/zonecell/internal/model"
	"github.com/udisondev/zonecell/internal/testutil"
)

const stripCell = 10

// stripAdjacency is a 12-cell strip used by the scenario tests:
// 1-2 and 9-10 are pairs, 4-5-6 see each other, the rest are isolated.
var stripAdjacency = [][]int{
	0:  {},
	1:  {2},
	2:  {1},
	3:  {},
	4:  {5, 6},
	5:  {4, 6},
	6:  {4, 5},
	7:  {},
	8:  {},
	9:  {10},
	10: {9},
	11: {},
}

type fixture struct {
	m        *Map
	notifier *testutil.RecordingNotifier
	rewards  *recordingRewarder
	rebirths *testutil.ManualScheduler
	factory  *cloneFactory
	nextID   atomic.Uint32
}

func newStripFixture(t *testing.T, typ Type) *fixture {
	t.Helper()
	return newFixture(t, Definition{
		ID:        1,
		Type:      typ,
		Name:      "strip",
		Geometry:  Geometry{Width: 12 * stripCell, Height: stripCell, CellSize: stripCell},
		Adjacency: stripAdjacency,
	})
}

func newGridFixture(t *testing.T, size, radius int) *fixture {
	t.Helper()
	side := float32(size * stripCell)
	return newFixture(t, Definition{
		ID:       2,
		Name:     "grid",
		Geometry: Geometry{Width: side, Height: side, CellSize: stripCell, ViewRadius: radius},
	})
}

func newFixture(t *testing.T, def Definition) *fixture {
	t.Helper()
	f := &fixture{
		notifier: testutil.NewRecordingNotifier(),
		rewards:  &recordingRewarder{},
		rebirths: testutil.NewManualScheduler(),
		factory:  &cloneFactory{},
	}
	m, err := NewMap(def, Deps{
		Notifier: f.notifier,
		Rewarder: f.rewards,
		Rebirths: f.rebirths,
		Factory:  f.factory,
	})
	require.NoError(t, err)
	f.m = m
	f.nextID.Store(1000)
	f.factory.next.Store(0x2F000000)
	return f
}

// at returns the centre of a strip cell.
func at(cell int) model.Location {
	return model.NewLocation(float32(cell*stripCell)+stripCell/2, 0, stripCell/2, 0)
}

func gridAt(col, row int) model.Location {
	return model.NewLocation(float32(col*stripCell)+stripCell/2, 0, float32(row*stripCell)+stripCell/2, 0)
}

func (f *fixture) player(t *testing.T, name string, loc model.Location) (*model.Player, *testutil.FakeConn) {
	t.Helper()
	conn := testutil.NewFakeConn(name)
	p := model.NewPlayer(f.nextID.Add(1), name, loc, conn, model.FactionLight)
	t.Cleanup(p.Dispose)
	require.NoError(t, f.m.Enter(p))
	return p, conn
}

func (f *fixture) mob(t *testing.T, loc model.Location, tpl *model.MonsterTemplate) *model.Monster {
	t.Helper()
	if tpl == nil {
		tpl = &model.MonsterTemplate{ID: 1, Name: "Wolf", MaxHP: 100, Exp: 30, GuildPoints: 5}
	}
	mob := model.NewMonster(f.nextID.Add(1), tpl, loc)
	require.NoError(t, f.m.Enter(mob))
	return mob
}

type recordingRewarder struct {
	mu     sync.Mutex
	single []uint32
	groups [][]uint32
}

func (r *recordingRewarder) AwardKill(killer *model.Player, _ *model.Monster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.single = append(r.single, killer.ID())
}

func (r *recordingRewarder) AwardGroupKill(members []*model.Player, _ *model.Monster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint32, 0, len(members))
	for _, p := range members {
		ids = append(ids, p.ID())
	}
	r.groups = append(r.groups, ids)
}

type cloneFactory struct {
	next atomic.Uint32
}

func (f *cloneFactory) CloneMonster(m *model.Monster) *model.Monster {
	return model.NewMonster(f.next.Add(1), m.Template(), m.Origin())
}

type noticeKey struct {
	kind    event.Kind
	subject uint32
}

// notices counts transition notices delivered to conn.
func notices(n *testutil.RecordingNotifier, conn event.Conn) map[noticeKey]int {
	out := make(map[noticeKey]int)
	for _, ev := range n.For(conn) {
		if ev.Kind.IsTransition() {
			out[noticeKey{ev.Kind, ev.SubjectID}]++
		}
	}
	return out
}
