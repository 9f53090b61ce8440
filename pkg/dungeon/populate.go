package dungeon

import (
	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/rng"
)

// PopulateRoom spawns up to MaxMonstersPerRoom monsters and up to
// MaxItemsPerRoom items on the room's floor. Monsters never share a tile with
// each other, nor items with items; a monster may stand on an item.
func PopulateRoom(w *domain.World, m *domain.Map, r rng.RNG, room domain.Rect, cfg Config) []types.EntityID {
	floor := (room.X2 - room.X1) * (room.Y2 - room.Y1)

	monsterSpots := spawnPoints(m, r, room, min(r.RollDice(1, cfg.MaxMonstersPerRoom), floor))
	itemSpots := spawnPoints(m, r, room, min(r.RollDice(1, cfg.MaxItemsPerRoom), floor))

	spawned := make([]types.EntityID, 0, len(monsterSpots)+len(itemSpots))
	for _, idx := range monsterSpots {
		spawned = append(spawned, RandomMonster(r).Spawn(w, m.PositionOf(idx)))
	}
	for _, idx := range itemSpots {
		spawned = append(spawned, RandomItem(r).Spawn(w, m.PositionOf(idx)))
	}
	return spawned
}

// PopulateMap fills every room except the first, which is the player's.
func PopulateMap(w *domain.World, m *domain.Map, r rng.RNG, cfg Config) {
	for i, room := range m.Rooms {
		if i == 0 {
			continue
		}
		PopulateRoom(w, m, r, room, cfg)
	}
}

func spawnPoints(m *domain.Map, r rng.RNG, room domain.Rect, n int) []int {
	points := make([]int, 0, n)
	for len(points) < n {
		x := room.X1 + r.RollDice(1, room.X2-room.X1)
		y := room.Y1 + r.RollDice(1, room.Y2-room.Y1)
		idx := m.Index(x, y)
		if !containsIdx(points, idx) {
			points = append(points, idx)
		}
	}
	return points
}

func containsIdx(points []int, idx int) bool {
	for _, p := range points {
		if p == idx {
			return true
		}
	}
	return false
}
