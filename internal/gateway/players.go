package gateway

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/udisondev/zonecell/internal/action"
	"github.com/udisondev/zonecell/internal/event"
	"github.com/udisondev/zonecell/internal/model"
	"github.com/udisondev/zonecell/internal/world"
)

// MapLookup resolves a loaded map by id.
type MapLookup interface {
	Map(id uint16) (*world.Map, bool)
}

// PlayerFactory creates players for new sessions.
type PlayerFactory interface {
	NewPlayer(name string, loc model.Location, conn event.Conn, faction model.Faction) *model.Player
}

// EntryPoint is where new players appear.
type EntryPoint struct {
	MapID uint16
	X, Y  float32
	Z     float32
}

var errNoName = errors.New("missing player name")

// PlayerHandler binds each session to a player on a map. Query parameters
// of the upgrade request: name (required), faction (light|dark), map.
type PlayerHandler struct {
	maps    MapLookup
	players PlayerFactory
	entry   EntryPoint
}

var _ Handler = (*PlayerHandler)(nil)

// NewPlayerHandler creates a handler. Panics on nil collaborators.
func NewPlayerHandler(maps MapLookup, players PlayerFactory, entry EntryPoint) *PlayerHandler {
	if maps == nil {
		panic("NewPlayerHandler: maps cannot be nil")
	}
	if players == nil {
		panic("NewPlayerHandler: players cannot be nil")
	}
	return &PlayerHandler{maps: maps, players: players, entry: entry}
}

type binding struct {
	player *model.Player
	m      *world.Map
}

// Connected creates the player and enters it at the entry point.
func (h *PlayerHandler) Connected(s *Session, r *http.Request) error {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		return errNoName
	}

	mapID := h.entry.MapID
	if v := q.Get("map"); v != "" {
		id, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("parsing map id %q: %w", v, err)
		}
		mapID = uint16(id)
	}
	m, ok := h.maps.Map(mapID)
	if !ok {
		return fmt.Errorf("%w: %d", world.ErrUnknownMap, mapID)
	}

	p := h.players.NewPlayer(name, model.NewLocation(h.entry.X, h.entry.Y, h.entry.Z, 0), s, parseFaction(q.Get("faction")))
	if err := m.Enter(p); err != nil {
		p.Dispose()
		return fmt.Errorf("entering map %d: %w", mapID, err)
	}
	s.Bind(&binding{player: p, m: m})

	slog.Info("player entered", "player", name, "id", p.ID(), "map", mapID, "session", s.SessionID())
	return nil
}

// Command applies a client command to the session's player.
func (h *PlayerHandler) Command(s *Session, cmd Command) {
	b, ok := s.Value().(*binding)
	if !ok {
		return
	}

	switch cmd.Op {
	case OpMove:
		loc := model.NewLocation(cmd.X, cmd.Y, cmd.Z, cmd.Heading)
		if err := b.m.Move(b.player, loc, cmd.Motion); err != nil {
			slog.Debug("move rejected", "player", b.player.ID(), "error", err)
		}
	case OpAction:
		b.player.RequestAction(action.Action(cmd.Action))
	case OpTarget:
		b.player.SetTarget(cmd.Target)
	default:
		slog.Warn("unknown client command", "op", cmd.Op, "session", s.SessionID())
	}
}

// Disconnected removes the player from its map.
func (h *PlayerHandler) Disconnected(s *Session) {
	b, ok := s.Value().(*binding)
	if !ok {
		return
	}
	b.m.Leave(b.player)
	b.player.Dispose()
	slog.Info("player left", "player", b.player.Name(), "id", b.player.ID(), "map", b.m.ID())
}

func parseFaction(s string) model.Faction {
	switch s {
	case "light":
		return model.FactionLight
	case "dark":
		return model.FactionDark
	default:
		return model.FactionNone
	}
}
