package spawn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonecell/internal/event"
	"github.com/udisondev/zonecell/internal/model"
	"github.com/udisondev/zonecell/internal/testutil"
	"github.com/udisondev/zonecell/internal/world"
)

type stubSpawns struct {
	spawns []model.Spawn
	err    error
}

func (s stubSpawns) LoadByMap(_ context.Context, mapID uint16) ([]model.Spawn, error) {
	var out []model.Spawn
	for _, sp := range s.spawns {
		if sp.MapID == mapID {
			out = append(out, sp)
		}
	}
	return out, s.err
}

type stubTemplates map[int32]*model.MonsterTemplate

func (s stubTemplates) LoadAll(context.Context) (map[int32]*model.MonsterTemplate, error) {
	return s, nil
}

func newTestMap(t *testing.T, deps world.Deps) *world.Map {
	t.Helper()
	m, err := world.NewMap(world.Definition{
		ID:       7,
		Name:     "field",
		Geometry: world.Geometry{Width: 100, Height: 100, CellSize: 10, ViewRadius: 1},
	}, deps)
	require.NoError(t, err)
	return m
}

func TestPopulator_Populate(t *testing.T) {
	m := newTestMap(t, world.Deps{})
	factory := NewFactory(world.NewIDGenerator())

	spawns := stubSpawns{spawns: []model.Spawn{
		{ID: 1, MapID: 7, Kind: model.SpawnMonster, TemplateID: 10, Location: model.NewLocation(15, 0, 15, 0), Count: 3},
		{ID: 2, MapID: 7, Kind: model.SpawnNpc, NpcType: 1, NpcTypeID: 4, Name: "Smith", Location: model.NewLocation(55, 0, 55, 0), Count: 1},
		{ID: 3, MapID: 7, Kind: model.SpawnMonster, TemplateID: 99, Location: model.NewLocation(15, 0, 15, 0), Count: 1},
		{ID: 4, MapID: 7, Kind: model.SpawnMonster, TemplateID: 10, Location: model.NewLocation(500, 0, 15, 0), Count: 1},
		{ID: 5, MapID: 8, Kind: model.SpawnMonster, TemplateID: 10, Location: model.NewLocation(15, 0, 15, 0), Count: 1},
	}}
	templates := stubTemplates{10: {ID: 10, Name: "Wolf", MaxHP: 50}}

	res, err := NewPopulator(factory, spawns, templates).Populate(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, Result{Monsters: 3, Npcs: 1, Skipped: 2}, res)

	mobs := m.CellAt(15, 15).GetAllMobs(false)
	require.Len(t, mobs, 3)
	for _, mob := range mobs {
		assert.Equal(t, "Wolf", mob.Name())
	}
	npcs := m.CellAt(55, 55).GetAllNpcs(false)
	require.Len(t, npcs, 1)
	assert.Equal(t, uint16(4), npcs[0].TypeID())
}

func TestPopulator_SourceError(t *testing.T) {
	m := newTestMap(t, world.Deps{})
	boom := errors.New("db down")

	_, err := NewPopulator(NewFactory(world.NewIDGenerator()), stubSpawns{err: boom}, stubTemplates{}).Populate(context.Background(), m)
	assert.ErrorIs(t, err, boom)
}

func TestFactory_CloneMonsterTakesFreshID(t *testing.T) {
	f := NewFactory(world.NewIDGenerator())
	tpl := &model.MonsterTemplate{ID: 1, Name: "Boar", MaxHP: 10}
	origin := model.NewLocation(5, 0, 5, 0)

	m := f.NewMonster(tpl, origin)
	m.SetLocation(model.NewLocation(9, 0, 9, 0))
	m.Die(0, 0)

	clone := f.CloneMonster(m)
	assert.NotEqual(t, m.ID(), clone.ID())
	assert.Equal(t, origin, clone.Location())
	assert.False(t, clone.IsDead())
	assert.Equal(t, int32(10), clone.HP())
	assert.Same(t, tpl, clone.Template())
}

func TestFactory_NilGeneratorPanics(t *testing.T) {
	assert.Panics(t, func() { NewFactory(nil) })
}

// Rebirth through the real scheduler and factory.
func TestRebirthEndToEnd(t *testing.T) {
	notifier := testutil.NewRecordingNotifier()
	scheduler := NewRebirthScheduler(time.Second)
	factory := NewFactory(world.NewIDGenerator())
	m := newTestMap(t, world.Deps{Notifier: notifier, Rebirths: scheduler, Factory: factory})

	conn := testutil.NewFakeConn("watcher")
	watcher := factory.NewPlayer("watcher", model.NewLocation(15, 0, 15, 0), conn, model.FactionLight)
	defer watcher.Dispose()
	require.NoError(t, m.Enter(watcher))

	tpl := &model.MonsterTemplate{ID: 1, Name: "Boar", MaxHP: 10, ShouldRebirth: true, RebirthDelay: time.Minute}
	mob := factory.NewMonster(tpl, model.NewLocation(15, 0, 15, 0))
	require.NoError(t, m.Enter(mob))
	require.True(t, mob.Die(watcher.ID(), event.EntityPlayer))
	require.Equal(t, 1, scheduler.TaskCount())

	assert.Equal(t, 1, scheduler.processTasks(time.Now().Add(2*time.Minute)))

	mobs := m.CellAt(15, 15).GetAllMobs(false)
	require.Len(t, mobs, 1)
	assert.NotEqual(t, mob.ID(), mobs[0].ID())
	assert.Equal(t, 1, notifier.Count(conn, event.KindMobEnter, mobs[0].ID()))
}
