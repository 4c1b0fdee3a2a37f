package testutil

import (
	"sync"
	"time"
)

// ManualScheduler откладывает задачи до явного вызова Fire/FireAll.
// Удобен для детерминированных тестов rebirth.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks map[uint32]ScheduledTask
}

// ScheduledTask: задача, ожидающая запуска.
type ScheduledTask struct {
	Delay time.Duration
	Fn    func()
}

// NewManualScheduler создаёт пустой планировщик.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[uint32]ScheduledTask)}
}

// Schedule запоминает задачу (заменяет предыдущую с тем же id).
func (s *ManualScheduler) Schedule(id uint32, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = ScheduledTask{Delay: delay, Fn: fn}
}

// Cancel удаляет задачу. Возвращает false если её не было.
func (s *ManualScheduler) Cancel(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[id]
	delete(s.tasks, id)
	return ok
}

// Task возвращает задачу по id.
func (s *ManualScheduler) Task(id uint32) (ScheduledTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	return t, ok
}

// Len возвращает количество ожидающих задач.
func (s *ManualScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Fire запускает задачу id (вне lock). Возвращает false если её нет.
func (s *ManualScheduler) Fire(id uint32) bool {
	s.mu.Lock()
	t, ok := s.tasks[id]
	delete(s.tasks, id)
	s.mu.Unlock()

	if !ok {
		return false
	}
	t.Fn()
	return true
}

// FireAll запускает все задачи. Возвращает их количество.
func (s *ManualScheduler) FireAll() int {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = make(map[uint32]ScheduledTask)
	s.mu.Unlock()

	for _, t := range tasks {
		t.Fn()
	}
	return len(tasks)
}
