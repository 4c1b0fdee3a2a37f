package world

import "sync"

// registry is a concurrent id -> entity table. Iteration tolerates
// concurrent mutation and yields a best-effort snapshot.
type registry[T any] struct {
	m sync.Map // map[uint32]T
}

// add stores v under id unless id is already present.
func (r *registry[T]) add(id uint32, v T) bool {
	_, loaded := r.m.LoadOrStore(id, v)
	return !loaded
}

// remove deletes id and returns what was stored there.
func (r *registry[T]) remove(id uint32) (T, bool) {
	v, ok := r.m.LoadAndDelete(id)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

func (r *registry[T]) get(id uint32) (T, bool) {
	v, ok := r.m.Load(id)
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

func (r *registry[T]) has(id uint32) bool {
	_, ok := r.m.Load(id)
	return ok
}

// each calls fn for every entry until fn returns false.
func (r *registry[T]) each(fn func(T) bool) {
	r.m.Range(func(_, v any) bool {
		return fn(v.(T))
	})
}

func (r *registry[T]) values() []T {
	out := make([]T, 0, 16)
	r.each(func(v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

func (r *registry[T]) len() int {
	n := 0
	r.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (r *registry[T]) clear() {
	r.m.Clear()
}
