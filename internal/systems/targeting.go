package systems

import (
	"dungeon-kernel/internal/domain"
)

// ValidTargets lists the tiles the player may aim a ranged item at: tiles in
// the player's current viewshed, within rangeLimit, with a clear line of
// flight from the player.
func ValidTargets(ctx *Context, rangeLimit int) []domain.Position {
	from, ok := ctx.PlayerPosition()
	if !ok {
		return nil
	}
	vs := ctx.World.Viewsheds.Ptr(ctx.Player)
	if vs == nil {
		return nil
	}

	var out []domain.Position
	for _, p := range vs.Visible {
		if inRange(from, p, rangeLimit) && HasLineOfSight(ctx.Map, from, p) {
			out = append(out, p)
		}
	}
	return out
}

// IsValidTarget is ValidTargets for a single tile.
func IsValidTarget(ctx *Context, rangeLimit int, p domain.Position) bool {
	from, ok := ctx.PlayerPosition()
	if !ok {
		return false
	}
	vs := ctx.World.Viewsheds.Ptr(ctx.Player)
	if vs == nil || !vs.CanSee(p) {
		return false
	}
	return inRange(from, p, rangeLimit) && HasLineOfSight(ctx.Map, from, p)
}

func inRange(from, to domain.Position, rangeLimit int) bool {
	return from.DistanceTo(to) <= float64(rangeLimit)
}
