// Package action serializes a burst of action requests from one actor into
// single-flight execution: one running action plus at most one queued
// follow-up per cooldown window.
package action

import (
	"sync"
	"time"
)

// Action is the client-side action number (skill slot or auto attack).
type Action int

const (
	// NoAction marks an empty pending slot.
	NoAction Action = 0
	// AutoAttack is the basic attack number.
	AutoAttack Action = 255
)

// Serializer is the per-actor attack/skill gate.
//
// Idle: the next request executes at once and starts the cooldown timer.
// Cooling: requests overwrite the single pending slot; the newest wins.
// When the timer fires it runs the pending action and restarts, or goes Idle.
type Serializer struct {
	exec     func(Action)
	cooldown func(Action) time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	cooling bool
	pending Action
	stopped bool
}

// New creates a serializer. exec runs outside the serializer lock.
// cooldown supplies the action-specific cooldown duration.
func New(exec func(Action), cooldown func(Action) time.Duration) *Serializer {
	return &Serializer{
		exec:     exec,
		cooldown: cooldown,
	}
}

// Request submits an action. NoAction is ignored.
func (s *Serializer) Request(a Action) {
	if a == NoAction {
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if s.cooling {
		s.pending = a
		s.mu.Unlock()
		return
	}
	s.cooling = true
	s.pending = NoAction
	s.arm(a)
	s.mu.Unlock()

	s.exec(a)
}

// Cooling reports whether the cooldown timer is running.
func (s *Serializer) Cooling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cooling
}

// Pending returns the queued action (NoAction if none).
func (s *Serializer) Pending() Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Stop cancels the timer and drops the pending action. Requests made after
// Stop are ignored. Called when the actor is destroyed.
func (s *Serializer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.cooling = false
	s.pending = NoAction
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// arm starts the cooldown for a. Caller holds mu.
func (s *Serializer) arm(a Action) {
	d := s.cooldown(a)
	if s.timer == nil {
		s.timer = time.AfterFunc(d, s.elapsed)
		return
	}
	s.timer.Reset(d)
}

func (s *Serializer) elapsed() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	next := s.pending
	if next == NoAction {
		s.cooling = false
		s.mu.Unlock()
		return
	}
	s.pending = NoAction
	s.arm(next)
	s.mu.Unlock()

	s.exec(next)
}
