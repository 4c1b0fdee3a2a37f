package spawn

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/zonecell/internal/model"
	"github.com/udisondev/zonecell/internal/world"
)

// SpawnSource loads the spawn points of a map.
type SpawnSource interface {
	LoadByMap(ctx context.Context, mapID uint16) ([]model.Spawn, error)
}

// TemplateSource loads monster templates keyed by template id.
type TemplateSource interface {
	LoadAll(ctx context.Context) (map[int32]*model.MonsterTemplate, error)
}

// Result counts what a population pass placed.
type Result struct {
	Monsters int
	Npcs     int
	Skipped  int
}

// Populator fills maps from stored spawn points.
type Populator struct {
	factory   *Factory
	spawns    SpawnSource
	templates TemplateSource
}

// NewPopulator creates a populator.
func NewPopulator(factory *Factory, spawns SpawnSource, templates TemplateSource) *Populator {
	return &Populator{
		factory:   factory,
		spawns:    spawns,
		templates: templates,
	}
}

// Populate enters every spawn of m's id into m. Spawns with an unknown
// template or an off-map position are skipped and logged.
func (p *Populator) Populate(ctx context.Context, m *world.Map) (Result, error) {
	var res Result

	templates, err := p.templates.LoadAll(ctx)
	if err != nil {
		return res, fmt.Errorf("loading monster templates: %w", err)
	}
	spawns, err := p.spawns.LoadByMap(ctx, m.ID())
	if err != nil {
		return res, fmt.Errorf("loading spawns for map %d: %w", m.ID(), err)
	}

	for _, sp := range spawns {
		for range max(sp.Count, 1) {
			var obj world.Object
			switch sp.Kind {
			case model.SpawnMonster:
				tpl, ok := templates[sp.TemplateID]
				if !ok {
					slog.Warn("spawn references unknown template", "spawn", sp.ID, "template", sp.TemplateID)
					res.Skipped++
					continue
				}
				obj = p.factory.NewMonster(tpl, sp.Location)
			case model.SpawnNpc:
				obj = p.factory.NewNpc(sp.NpcType, sp.NpcTypeID, sp.Name, sp.Location)
			default:
				res.Skipped++
				continue
			}

			if err := m.Enter(obj); err != nil {
				slog.Warn("spawn not placed", "spawn", sp.ID, "map", m.ID(), "error", err)
				res.Skipped++
				continue
			}
			if sp.Kind == model.SpawnMonster {
				res.Monsters++
			} else {
				res.Npcs++
			}
		}
	}

	slog.Info("map populated", "map", m.ID(), "monsters", res.Monsters, "npcs", res.Npcs, "skipped", res.Skipped)
	return res, nil
}
