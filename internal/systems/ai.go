package systems

import (
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// MeleeReach covers the 8 neighbouring tiles, diagonals included.
const MeleeReach = 1.5

// RunMonsterAI gives every monster one step, in spawn order. A monster that
// moves updates Blocked immediately, so monsters later in the same pass path
// around it.
//
// Per monster: a confused monster loses its step and one turn of confusion.
// Otherwise, if it sees the player, it attacks when adjacent and else moves to
// the second tile of an A* path. No path, or a path of one tile, means no move.
func RunMonsterAI(ctx *Context) {
	w := ctx.World
	m := ctx.Map

	playerPos, ok := ctx.PlayerPosition()
	if !ok {
		return
	}

	for _, id := range w.Monsters.IDs() {
		if !w.Names.Has(id) {
			continue
		}
		pos, hasPos := w.Positions.Get(id)
		vs := w.Viewsheds.Ptr(id)
		if !hasPos || vs == nil {
			continue
		}

		name := w.MustName(id)
		aiLogger := logger.Log.WithFields(logrus.Fields{
			"component": "ai_system",
			"monster":   name,
			"entity_id": id,
		})

		if conf := w.Confusion.Ptr(id); conf != nil {
			conf.Turns--
			if conf.Turns <= 0 {
				w.Confusion.Remove(id)
			}
			aiLogger.WithField("turns_left", max(conf.Turns, 0)).Debugf("%s is confused", name)
			continue
		}

		if !vs.CanSee(playerPos) {
			continue
		}

		if pos.DistanceTo(playerPos) < MeleeReach {
			w.WantsToMelee.Insert(id, domain.WantsToMelee{Target: ctx.Player})
			aiLogger.Debug("Player adjacent, attacking.")
			continue
		}

		path := AStar(m, m.IndexOf(pos), m.IndexOf(playerPos))
		if !path.Success || len(path.Steps) <= 1 {
			aiLogger.Debug("No path to player.")
			continue
		}

		from := m.IndexOf(pos)
		to := path.Steps[1]
		if w.Blockers.Has(id) {
			m.Blocked[from] = m.Tiles[from] == domain.TileWall
			m.Blocked[to] = true
		}
		w.MoveTo(id, m.PositionOf(to))
		aiLogger.WithFields(logrus.Fields{
			"from": pos,
			"to":   m.PositionOf(to),
		}).Debug("Monster moves toward player.")
	}
}
