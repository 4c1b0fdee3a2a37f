package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/udisondev/zonecell/internal/model"
)

// KillRepository writes the kill log.
type KillRepository struct {
	pool *pgxpool.Pool
}

// NewKillRepository creates a new kill log repository
func NewKillRepository(pool *pgxpool.Pool) *KillRepository {
	return &KillRepository{pool: pool}
}

// Insert appends one kill record.
func (r *KillRepository) Insert(ctx context.Context, rec model.KillRecord) error {
	query := `
		INSERT INTO kill_log (monster_id, template_id, player_id, exp, group_size, killed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		int64(rec.MonsterID),
		rec.TemplateID,
		int64(rec.PlayerID),
		rec.Exp,
		int16(rec.GroupSize),
		rec.KilledAt,
	)
	if err != nil {
		return fmt.Errorf("inserting kill of monster %d by player %d: %w", rec.MonsterID, rec.PlayerID, err)
	}
	return nil
}

// InsertBatch appends many records with a single COPY.
func (r *KillRepository) InsertBatch(ctx context.Context, recs []model.KillRecord) error {
	if len(recs) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []any{
			int64(rec.MonsterID),
			rec.TemplateID,
			int64(rec.PlayerID),
			rec.Exp,
			int16(rec.GroupSize),
			rec.KilledAt,
		})
	}

	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"kill_log"},
		[]string{"monster_id", "template_id", "player_id", "exp", "group_size", "killed_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying %d kill records: %w", len(recs), err)
	}
	return nil
}

// TotalExp sums the experience logged for a player.
func (r *KillRepository) TotalExp(ctx context.Context, playerID uint32) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(exp), 0) FROM kill_log WHERE player_id = $1`,
		int64(playerID),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing exp of player %d: %w", playerID, err)
	}
	return total, nil
}
