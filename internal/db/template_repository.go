package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/udisondev/zonecell/internal/model"
)

// TemplateRepository reads monster templates.
type TemplateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

// LoadAll loads every monster template keyed by template id.
func (r *TemplateRepository) LoadAll(ctx context.Context) (map[int32]*model.MonsterTemplate, error) {
	query := `
		SELECT template_id, name, level, max_hp, exp, guild_points, should_rebirth, rebirth_ms
		FROM monster_templates
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading monster templates: %w", err)
	}
	defer rows.Close()

	templates := make(map[int32]*model.MonsterTemplate)

	for rows.Next() {
		var (
			tpl       model.MonsterTemplate
			level     int16
			rebirthMs int32
		)

		if err := rows.Scan(
			&tpl.ID, &tpl.Name, &level, &tpl.MaxHP, &tpl.Exp, &tpl.GuildPoints,
			&tpl.ShouldRebirth, &rebirthMs,
		); err != nil {
			return nil, fmt.Errorf("scanning monster template row: %w", err)
		}
		tpl.Level = uint16(level)
		tpl.RebirthDelay = time.Duration(rebirthMs) * time.Millisecond

		templates[tpl.ID] = &tpl
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monster template rows: %w", err)
	}

	return templates, nil
}

// Upsert inserts or replaces a template.
func (r *TemplateRepository) Upsert(ctx context.Context, tpl *model.MonsterTemplate) error {
	query := `
		INSERT INTO monster_templates (template_id, name, level, max_hp, exp, guild_points, should_rebirth, rebirth_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (template_id) DO UPDATE SET
			name = EXCLUDED.name,
			level = EXCLUDED.level,
			max_hp = EXCLUDED.max_hp,
			exp = EXCLUDED.exp,
			guild_points = EXCLUDED.guild_points,
			should_rebirth = EXCLUDED.should_rebirth,
			rebirth_ms = EXCLUDED.rebirth_ms
	`

	_, err := r.pool.Exec(ctx, query,
		tpl.ID,
		tpl.Name,
		int16(tpl.Level),
		tpl.MaxHP,
		tpl.Exp,
		tpl.GuildPoints,
		tpl.ShouldRebirth,
		int32(tpl.RebirthDelay/time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("saving monster template %d: %w", tpl.ID, err)
	}
	return nil
}
