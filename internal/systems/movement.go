package systems

import (
	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// TryMovePlayer bumps or steps. Anything with CombatStats on the destination
// is attacked instead of moving; otherwise the player steps there unless the
// tile is blocked. The destination is clamped to the map.
func TryMovePlayer(ctx *Context, dx, dy int) {
	w := ctx.World
	m := ctx.Map

	pos, ok := ctx.PlayerPosition()
	if !ok {
		return
	}
	dest := pos.Shift(dx, dy)
	dest.X = min(m.Width-1, max(0, dest.X))
	dest.Y = min(m.Height-1, max(0, dest.Y))
	if dest == pos {
		return
	}
	idx := m.IndexOf(dest)

	for _, target := range m.OccupantsAt(idx) {
		if target == ctx.Player || !w.Stats.Has(target) {
			continue
		}
		w.WantsToMelee.Insert(ctx.Player, domain.WantsToMelee{Target: target})
		logger.Log.WithFields(logrus.Fields{
			"component": "movement_system",
			"target":    w.NameOf(target, DebugName),
		}).Debug("Player attacks.")
		return
	}

	if !m.IsBlocked(idx) {
		w.MoveTo(ctx.Player, dest)
	}
}

// TryPickup queues a pickup of the first item lying on the player's tile.
// It reports whether anything was there.
func TryPickup(ctx *Context) bool {
	w := ctx.World
	pos, ok := ctx.PlayerPosition()
	if !ok {
		return false
	}

	for _, item := range w.Items.IDs() {
		if p, onMap := w.Positions.Get(item); onMap && p == pos {
			w.WantsToPickup.Insert(ctx.Player, domain.WantsToPickupItem{CollectedBy: ctx.Player, Item: item})
			return true
		}
	}
	ctx.Log.Add("There is nothing here to pick up.")
	return false
}

// RequestUse queues a use of item by the player. A nil target means the
// player uses it on themself.
func RequestUse(ctx *Context, item types.EntityID, target *domain.Position) {
	ctx.World.WantsToUse.Insert(ctx.Player, domain.WantsToUseItem{Item: item, Target: target})
}

func RequestDrop(ctx *Context, item types.EntityID) {
	ctx.World.WantsToDrop.Insert(ctx.Player, domain.WantsToDropItem{Item: item})
}
