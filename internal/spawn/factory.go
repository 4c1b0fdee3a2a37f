package spawn

import (
	"github.com/udisondev/zonecell/internal/event"
	"github.com/udisondev/zonecell/internal/model"
	"github.com/udisondev/zonecell/internal/world"
)

// Factory creates entities with fresh ids.
type Factory struct {
	ids *world.IDGenerator
}

var _ world.EntityFactory = (*Factory)(nil)

// NewFactory creates a factory drawing ids from ids. Panics on nil.
func NewFactory(ids *world.IDGenerator) *Factory {
	if ids == nil {
		panic("NewFactory: ids cannot be nil")
	}
	return &Factory{ids: ids}
}

// NewMonster creates a monster at origin.
func (f *Factory) NewMonster(tpl *model.MonsterTemplate, origin model.Location) *model.Monster {
	return model.NewMonster(f.ids.NextMonsterID(), tpl, origin)
}

// CloneMonster creates a living copy of m at its spawn origin under a new
// id. Dead instances are never reused.
func (f *Factory) CloneMonster(m *model.Monster) *model.Monster {
	return f.NewMonster(m.Template(), m.Origin())
}

// NewNpc creates an NPC.
func (f *Factory) NewNpc(npcType uint8, typeID uint16, name string, loc model.Location) *model.Npc {
	return model.NewNpc(f.ids.NextNpcID(), npcType, typeID, name, loc)
}

// NewItem creates a dropped item. ownerID 0 lets anyone pick it up.
func (f *Factory) NewItem(itemID, count int32, ownerID uint32, loc model.Location) *model.MapItem {
	return model.NewMapItem(f.ids.NextItemID(), itemID, count, ownerID, loc)
}

// NewPlayer creates a player for a connection.
func (f *Factory) NewPlayer(name string, loc model.Location, conn event.Conn, faction model.Faction) *model.Player {
	return model.NewPlayer(f.ids.NextPlayerID(), name, loc, conn, faction)
}
