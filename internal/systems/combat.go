package systems

import (
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// RunMelee resolves every WantsToMelee. Both sides must be alive; damage is
// power minus defense, floored at zero, and is queued rather than applied so
// that several attackers in one turn add up. All melee intents are cleared.
func RunMelee(ctx *Context) {
	w := ctx.World
	defer w.WantsToMelee.Clear()

	for _, attacker := range w.WantsToMelee.IDs() {
		intent, _ := w.WantsToMelee.Get(attacker)
		w.MustAlive(intent.Target, "WantsToMelee target")

		attackerStats, ok := w.Stats.Get(attacker)
		if !ok || attackerStats.HP <= 0 {
			continue
		}
		targetStats, ok := w.Stats.Get(intent.Target)
		if !ok || targetStats.HP <= 0 {
			continue
		}

		attackerName := w.NameOf(attacker, DebugName)
		targetName := w.NameOf(intent.Target, DebugName)
		damage := attackerStats.MeleeDamageAgainst(targetStats)

		logger.Log.WithFields(logrus.Fields{
			"component": "combat_system",
			"attacker":  attackerName,
			"target":    targetName,
			"power":     attackerStats.Power,
			"defense":   targetStats.Defense,
			"damage":    damage,
		}).Debug("Melee resolved.")

		if damage == 0 {
			ctx.Log.Addf("%s is unable to hurt %s", attackerName, targetName)
			continue
		}
		w.AddDamage(intent.Target, damage)
		ctx.Log.Addf("%s hits %s, for %d hp.", attackerName, targetName, damage)
	}
}
