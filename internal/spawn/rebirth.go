package spawn

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/zonecell/internal/world"
)

// DefaultTickInterval is how often due rebirths are checked.
const DefaultTickInterval = time.Second

// RebirthTask is a scheduled rebirth.
type RebirthTask struct {
	ID      uint32
	DueAt   time.Time
	Rebirth func()
}

// RebirthScheduler runs scheduled rebirths from a ticker loop.
type RebirthScheduler struct {
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	tasks map[uint32]*RebirthTask // dead monster id → task
}

var _ world.RebirthScheduler = (*RebirthScheduler)(nil)

// NewRebirthScheduler creates a scheduler. interval <= 0 means
// DefaultTickInterval.
func NewRebirthScheduler(interval time.Duration) *RebirthScheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &RebirthScheduler{
		interval: interval,
		stopCh:   make(chan struct{}),
		tasks:    make(map[uint32]*RebirthTask),
	}
}

// Start runs the ticker loop (blocks until ctx is cancelled or Stop).
func (s *RebirthScheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("rebirth scheduler started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("rebirth scheduler stopping", "pending", s.TaskCount())
			return ctx.Err()

		case <-s.stopCh:
			slog.Info("rebirth scheduler stopped")
			return nil

		case now := <-ticker.C:
			s.processTasks(now)
		}
	}
}

// Stop ends the loop. Safe to call more than once.
func (s *RebirthScheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Schedule runs fn once after delay. A task with the same id is replaced.
func (s *RebirthScheduler) Schedule(id uint32, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := time.Now().Add(delay)
	s.tasks[id] = &RebirthTask{ID: id, DueAt: due, Rebirth: fn}

	slog.Debug("rebirth scheduled", "monster", id, "delay", delay, "due", due.Format(time.RFC3339))
}

// Cancel drops a scheduled rebirth.
func (s *RebirthScheduler) Cancel(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tasks[id]
	delete(s.tasks, id)
	if ok {
		slog.Debug("rebirth cancelled", "monster", id)
	}
	return ok
}

// TaskCount returns the number of scheduled rebirths.
func (s *RebirthScheduler) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Task returns the scheduled rebirth for id.
func (s *RebirthScheduler) Task(id uint32) (RebirthTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return RebirthTask{}, false
	}
	return *t, true
}

// processTasks takes the due tasks out under the lock and runs them after
// releasing it, so a rebirth may schedule again.
func (s *RebirthScheduler) processTasks(now time.Time) int {
	s.mu.Lock()
	due := make([]*RebirthTask, 0)
	for id, task := range s.tasks {
		if !now.Before(task.DueAt) {
			due = append(due, task)
			delete(s.tasks, id)
		}
	}
	s.mu.Unlock()

	for _, task := range due {
		s.run(task)
	}
	return len(due)
}

func (s *RebirthScheduler) run(task *RebirthTask) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("rebirth panicked", "monster", task.ID, "panic", r)
		}
	}()
	task.Rebirth()
}
