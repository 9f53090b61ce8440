package systems

import (
	"fmt"

	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// RunDamage applies every queued SufferDamage in one pass and clears them.
// Queued damage on an entity without CombatStats is discarded.
func RunDamage(ctx *Context) {
	w := ctx.World
	w.SufferDamage.Each(func(id types.EntityID, d *domain.SufferDamage) {
		if stats := w.Stats.Ptr(id); stats != nil {
			stats.TakeDamage(d.Amount)
		}
	})
	w.SufferDamage.Clear()
}

// DeathSweep runs at the end of every tick. A dead player is reported but
// never removed; any other dead entity is reported once and deleted after the
// scan. It returns the deleted handles.
func DeathSweep(ctx *Context) []types.EntityID {
	w := ctx.World
	var dead []types.EntityID

	w.Stats.Each(func(id types.EntityID, stats *domain.CombatStats) {
		if stats.HP >= 1 {
			return
		}
		if w.Players.Has(id) {
			ctx.Log.Add("You are dead")
			return
		}
		ctx.Log.Addf("%s is dead", w.MustName(id))
		dead = append(dead, id)
	})

	for _, victim := range dead {
		if err := w.Delete(victim); err != nil {
			panic(fmt.Errorf("%w: removing dead %s: %w", domain.ErrContractViolation, victim, err))
		}
		logger.Log.WithFields(logrus.Fields{
			"component": "damage_system",
			"entity_id": victim,
		}).Debug("Dead entity removed.")
	}
	return dead
}
