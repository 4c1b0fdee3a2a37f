package world

import "github.com/udisondev/zonecell/internal/model"

// GetPlayersInRange returns the players around (x, z). radius 0 disables
// the distance filter. FactionNone matches every faction. Dead players are
// skipped unless includeDead.
func (c *Cell) GetPlayersInRange(x, z float32, radius float64, faction model.Faction, includeDead, includeNeighbors bool) []*model.Player {
	all := c.GetAllPlayers(includeNeighbors)
	out := all[:0]
	for _, p := range all {
		if !includeDead && p.IsDead() {
			continue
		}
		if faction != model.FactionNone && p.Faction() != faction {
			continue
		}
		if radius != 0 && p.Location().Distance2D(x, z) > radius {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GetEnemies returns what sender may hit around (x, z): living monsters
// and living players of another faction within radius.
func (c *Cell) GetEnemies(sender *model.Player, x, z float32, radius float64) []model.Killable {
	var out []model.Killable

	for _, mob := range c.GetAllMobs(true) {
		if mob.IsDead() || mob.Location().Distance2D(x, z) > radius {
			continue
		}
		out = append(out, mob)
	}
	for _, p := range c.GetAllPlayers(true) {
		if p.IsDead() || p.Faction() == sender.Faction() || p.Location().Distance2D(x, z) > radius {
			continue
		}
		out = append(out, p)
	}
	return out
}
