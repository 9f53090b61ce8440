package dungeon

import (
	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/core/types/enums"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/rng"
)

var PlayerStats = domain.CombatStats{MaxHP: 30, HP: 30, Defense: 2, Power: 5}

// CreatePlayer spawns the player at pos. The player has no BlocksTile, so
// monsters can path onto the player's tile as a goal.
func CreatePlayer(w *domain.World, pos domain.Position) types.EntityID {
	id := w.Create(enums.EntityTypePlayer)
	w.Positions.Insert(id, pos)
	w.Renderables.Insert(id, domain.Renderable{Glyph: types.MakeGlyph(0xFFFF00, '@'), Order: OrderPlayer})
	w.Players.Insert(id, domain.Player{})
	w.Viewsheds.Insert(id, domain.Viewshed{Range: DefaultViewRange, Dirty: true})
	w.Names.Insert(id, domain.Name{Name: "Player"})
	w.Stats.Insert(id, PlayerStats)
	return id
}

// RandomMonster picks orc or goblin with equal odds.
func RandomMonster(r rng.RNG) MonsterTemplate {
	if r.RollDice(1, 2) == 1 {
		return Orc
	}
	return Goblin
}

// RandomItem picks one of the four item kinds with equal odds.
func RandomItem(r rng.RNG) ItemTemplate {
	switch r.RollDice(1, 4) {
	case 1:
		return HealthPotion
	case 2:
		return FireballScroll
	case 3:
		return ConfusionScroll
	default:
		return MagicMissileScroll
	}
}
