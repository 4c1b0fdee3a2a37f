package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/udisondev/zonecell/internal/model"
)

// SpawnRepository reads spawn points.
type SpawnRepository struct {
	pool *pgxpool.Pool
}

// NewSpawnRepository creates a new spawn repository
func NewSpawnRepository(pool *pgxpool.Pool) *SpawnRepository {
	return &SpawnRepository{pool: pool}
}

// LoadByMap loads the spawn points of one map.
func (r *SpawnRepository) LoadByMap(ctx context.Context, mapID uint16) ([]model.Spawn, error) {
	query := `
		SELECT spawn_id, kind, COALESCE(template_id, 0), npc_type, npc_type_id, name,
		       x, y, z, heading, count
		FROM spawns
		WHERE map_id = $1
		ORDER BY spawn_id
	`

	rows, err := r.pool.Query(ctx, query, int32(mapID))
	if err != nil {
		return nil, fmt.Errorf("loading spawns for map %d: %w", mapID, err)
	}
	defer rows.Close()

	spawns := make([]model.Spawn, 0, 50)

	for rows.Next() {
		var (
			sp        model.Spawn
			kind      string
			npcType   int16
			npcTypeID int32
			heading   int32
		)

		if err := rows.Scan(
			&sp.ID, &kind, &sp.TemplateID, &npcType, &npcTypeID, &sp.Name,
			&sp.Location.X, &sp.Location.Y, &sp.Location.Z, &heading, &sp.Count,
		); err != nil {
			return nil, fmt.Errorf("scanning spawn row: %w", err)
		}

		sp.Kind, err = model.ParseSpawnKind(kind)
		if err != nil {
			return nil, fmt.Errorf("spawn %d: %w", sp.ID, err)
		}
		sp.MapID = mapID
		sp.NpcType = uint8(npcType)
		sp.NpcTypeID = uint16(npcTypeID)
		sp.Location.Heading = uint16(heading)

		spawns = append(spawns, sp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawn rows: %w", err)
	}

	return spawns, nil
}

// Create stores a spawn point and returns its id.
func (r *SpawnRepository) Create(ctx context.Context, sp model.Spawn) (int64, error) {
	query := `
		INSERT INTO spawns (map_id, kind, template_id, npc_type, npc_type_id, name, x, y, z, heading, count)
		VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING spawn_id
	`

	var spawnID int64
	err := r.pool.QueryRow(ctx, query,
		int32(sp.MapID),
		sp.Kind.String(),
		sp.TemplateID,
		int16(sp.NpcType),
		int32(sp.NpcTypeID),
		sp.Name,
		sp.Location.X,
		sp.Location.Y,
		sp.Location.Z,
		int32(sp.Location.Heading),
		sp.Count,
	).Scan(&spawnID)
	if err != nil {
		return 0, fmt.Errorf("creating %s spawn on map %d: %w", sp.Kind, sp.MapID, err)
	}

	return spawnID, nil
}
