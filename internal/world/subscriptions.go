package world

import (
	"sync"

	"github.com/udisondev/zonecell/internal/event"
	"github.com/udisondev/zonecell/internal/model"
)

type subKey struct {
	kind event.EntityKind
	id   uint32
}

// subscriptions is a cell's observer table: the entities whose published
// events the cell relays. Teardown is a table clear.
type subscriptions struct {
	m sync.Map // map[subKey]*model.Entity
}

// add registers e and points its publications at r.
func (s *subscriptions) add(e *model.Entity, r model.Relay) {
	s.m.Store(subKey{e.Kind(), e.ID()}, e)
	e.Attach(r)
}

// remove drops e from the table before detaching it, so an event already
// in flight is refused by has().
func (s *subscriptions) remove(e *model.Entity, r model.Relay) {
	s.m.Delete(subKey{e.Kind(), e.ID()})
	e.Detach(r)
}

func (s *subscriptions) has(kind event.EntityKind, id uint32) bool {
	_, ok := s.m.Load(subKey{kind, id})
	return ok
}

// clear detaches every subscribed entity from r.
func (s *subscriptions) clear(r model.Relay) {
	s.m.Range(func(k, v any) bool {
		s.m.Delete(k)
		v.(*model.Entity).Detach(r)
		return true
	})
}

func (s *subscriptions) len() int {
	n := 0
	s.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
