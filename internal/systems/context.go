package systems

import (
	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/rng"
)

// DebugName stands in for a missing Name in combat messages.
const DebugName = "DEBUG: MISSING NAME"

// Context is everything a system may touch during one pass. It is passed
// explicitly so each system can be run alone against a hand-built world.
type Context struct {
	World  *domain.World
	Map    *domain.Map
	Log    *domain.GameLog
	Player types.EntityID
	RNG    rng.RNG
}

// PlayerPosition returns the player's tile, or false when the player is gone
// or not on the map.
func (c *Context) PlayerPosition() (domain.Position, bool) {
	return c.World.Positions.Get(c.Player)
}

func (c *Context) IsPlayer(id types.EntityID) bool {
	return id == c.Player
}
