// Package reward hands out kill credit and records kills in the
// background.
package reward

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/zonecell/internal/model"
	"github.com/udisondev/zonecell/internal/world"
)

// Queue runs work in the background and reports the outcome to then.
// Enqueue must not block.
type Queue interface {
	Enqueue(work func(ctx context.Context) error, then func(err error)) error
}

// KillLog stores kill records.
type KillLog interface {
	Insert(ctx context.Context, rec model.KillRecord) error
}

// Service implements world.Rewarder.
type Service struct {
	queue Queue
	log   KillLog
	now   func() time.Time
}

var _ world.Rewarder = (*Service)(nil)

// NewService creates a reward service. With a nil queue or log nothing is
// recorded.
func NewService(queue Queue, log KillLog) *Service {
	return &Service{
		queue: queue,
		log:   log,
		now:   time.Now,
	}
}

// AwardKill gives the victim's experience to the killer.
func (s *Service) AwardKill(killer *model.Player, victim *model.Monster) {
	exp := int64(victim.Template().Exp)
	killer.AddExperience(exp)
	s.record(victim, killer.ID(), exp, 1)
}

// AwardGroupKill splits the victim's experience evenly across the living
// members. The remainder goes to the first living member.
func (s *Service) AwardGroupKill(members []*model.Player, victim *model.Monster) {
	alive := make([]*model.Player, 0, len(members))
	for _, p := range members {
		if !p.IsDead() {
			alive = append(alive, p)
		}
	}
	if len(alive) == 0 {
		return
	}

	total := int64(victim.Template().Exp)
	share := total / int64(len(alive))
	rest := total % int64(len(alive))

	for i, p := range alive {
		exp := share
		if i == 0 {
			exp += rest
		}
		p.AddExperience(exp)
		s.record(victim, p.ID(), exp, len(alive))
	}
}

// record enqueues a kill-log row. Never waits on storage.
func (s *Service) record(victim *model.Monster, playerID uint32, exp int64, groupSize int) {
	if s.queue == nil || s.log == nil {
		return
	}

	rec := model.KillRecord{
		MonsterID:  victim.ID(),
		TemplateID: victim.Template().ID,
		PlayerID:   playerID,
		Exp:        exp,
		GroupSize:  groupSize,
		KilledAt:   s.now(),
	}

	err := s.queue.Enqueue(
		func(ctx context.Context) error { return s.log.Insert(ctx, rec) },
		func(err error) {
			if err != nil {
				slog.Error("kill log write failed", "monster", rec.MonsterID, "player", rec.PlayerID, "error", err)
			}
		},
	)
	if err != nil {
		slog.Warn("kill log row dropped", "monster", rec.MonsterID, "player", rec.PlayerID, "error", err)
	}
}
