package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/udisondev/zonecell/internal/model"
)

// ErrUnknownMap is returned for a map id that was never loaded.
var ErrUnknownMap = errors.New("unknown map")

// World holds the loaded maps of a zone server.
type World struct {
	mu   sync.RWMutex
	maps map[uint16]*Map
	deps Deps
}

// NewWorld creates an empty world. deps are shared by every map loaded
// through it.
func NewWorld(deps Deps) *World {
	return &World{
		maps: make(map[uint16]*Map),
		deps: deps,
	}
}

// Load builds a map from def and registers it.
func (w *World) Load(def Definition) (*Map, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.maps[def.ID]; exists {
		return nil, fmt.Errorf("map %d already loaded", def.ID)
	}
	m, err := NewMap(def, w.deps)
	if err != nil {
		return nil, err
	}
	w.maps[def.ID] = m
	return m, nil
}

// Map returns a loaded map.
func (w *World) Map(id uint16) (*Map, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.maps[id]
	return m, ok
}

// Maps returns every loaded map.
func (w *World) Maps() []*Map {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Map, 0, len(w.maps))
	for _, m := range w.maps {
		out = append(out, m)
	}
	return out
}

// Transfer moves p from map from to map to at loc (teleport between maps).
// The destination is checked before p leaves the source.
func (w *World) Transfer(p *model.Player, from, to uint16, loc model.Location) error {
	src, ok := w.Map(from)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMap, from)
	}
	dst, ok := w.Map(to)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMap, to)
	}
	if !dst.Geometry().Contains(loc.X, loc.Z) {
		return fmt.Errorf("%w: map %d at (%v, %v)", ErrOutOfBounds, to, loc.X, loc.Z)
	}

	src.Leave(p)
	p.SetLocation(loc)
	return dst.Enter(p)
}

// Unload disposes one map and forgets it.
func (w *World) Unload(id uint16) error {
	w.mu.Lock()
	m, ok := w.maps[id]
	delete(w.maps, id)
	w.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMap, id)
	}
	m.Dispose()
	return nil
}

// Dispose unloads every map.
func (w *World) Dispose() {
	w.mu.Lock()
	maps := w.maps
	w.maps = make(map[uint16]*Map)
	w.mu.Unlock()

	for _, m := range maps {
		m.Dispose()
	}
}
