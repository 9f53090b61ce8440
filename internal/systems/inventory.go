package systems

import (
	"fmt"

	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// RunItemCollection moves every requested item from the map into its
// collector's backpack.
func RunItemCollection(ctx *Context) {
	w := ctx.World
	defer w.WantsToPickup.Clear()

	for _, id := range w.WantsToPickup.IDs() {
		pickup, _ := w.WantsToPickup.Get(id)
		w.MustAlive(pickup.Item, "WantsToPickupItem item")
		w.MustAlive(pickup.CollectedBy, "WantsToPickupItem collector")

		w.Positions.Remove(pickup.Item)
		w.InBackpack.Insert(pickup.Item, domain.InBackpack{Owner: pickup.CollectedBy})

		if ctx.IsPlayer(pickup.CollectedBy) {
			ctx.Log.Addf("You pick up %s", w.MustName(pickup.Item))
		}
	}
}

// RunItemUse resolves every WantsToUseItem. Targets are picked first, then
// each effect tag on the item fires independently against all of them.
// Consumable items that fired at least one effect are deleted once the pass
// is over.
func RunItemUse(ctx *Context) {
	w := ctx.World
	var consumed []types.EntityID

	for _, user := range w.WantsToUse.IDs() {
		use, _ := w.WantsToUse.Get(user)
		w.MustAlive(use.Item, "WantsToUseItem item")

		itemName := w.MustName(use.Item)
		byPlayer := ctx.IsPlayer(user)
		targets := useTargets(ctx, user, use)
		used := false

		if healing, ok := w.Healing.Get(use.Item); ok {
			for _, target := range targets {
				stats := w.Stats.Ptr(target)
				if stats == nil {
					continue
				}
				stats.Heal(healing.HealAmount)
				if byPlayer {
					ctx.Log.Addf("You use the %s, healing %d", itemName, healing.HealAmount)
				}
			}
			used = true
		}

		if damage, ok := w.Damaging.Get(use.Item); ok {
			for _, target := range targets {
				w.AddDamage(target, damage.Damage)
				if byPlayer {
					ctx.Log.Addf("You use %s on %s, inflicting %d hp.", itemName, w.MustName(target), damage.Damage)
				}
			}
			used = true
		}

		if confusion, ok := w.Confusion.Get(use.Item); ok {
			for _, target := range targets {
				// The same storage tags confusing items; an item on the tile
				// must not become one.
				if w.Items.Has(target) {
					continue
				}
				w.Confusion.Insert(target, domain.Confusion{Turns: confusion.Turns})
				if byPlayer {
					ctx.Log.Addf("You use %s on %s, confusing it.", itemName, w.MustName(target))
				}
			}
			used = true
		}

		logger.Log.WithFields(logrus.Fields{
			"component": "inventory_system",
			"user":      user,
			"item":      itemName,
			"targets":   len(targets),
			"used":      used,
		}).Debug("Item use resolved.")

		if used && w.Consumables.Has(use.Item) {
			consumed = append(consumed, use.Item)
		}
	}
	w.WantsToUse.Clear()

	for _, item := range consumed {
		if !w.IsAlive(item) {
			continue
		}
		if err := w.Delete(item); err != nil {
			panic(fmt.Errorf("%w: consuming %s: %w", domain.ErrContractViolation, item, err))
		}
	}
}

// useTargets resolves who an item use affects. No target point means the
// user. A plain point means whoever stands on it. An area item hits everyone
// in a field-of-view blast around the point, clipped to the map interior.
func useTargets(ctx *Context, user types.EntityID, use domain.WantsToUseItem) []types.EntityID {
	if use.Target == nil {
		return []types.EntityID{user}
	}

	m := ctx.Map
	point := *use.Target
	if !m.InBounds(point.X, point.Y) {
		return nil
	}

	aoe, ok := ctx.World.AreaOfEffect.Get(use.Item)
	if !ok {
		return occupantsOn(ctx, point, nil)
	}

	var targets []types.EntityID
	for _, p := range ComputeFOV(m, point, aoe.Radius) {
		if p.X > 0 && p.X < m.Width-1 && p.Y > 0 && p.Y < m.Height-1 {
			targets = occupantsOn(ctx, p, targets)
		}
	}
	return targets
}

// occupantsOn appends the live entities indexed on p that are still there.
func occupantsOn(ctx *Context, p domain.Position, dst []types.EntityID) []types.EntityID {
	w := ctx.World
	for _, id := range ctx.Map.OccupantsAt(ctx.Map.IndexOf(p)) {
		if pos, ok := w.Positions.Get(id); ok && pos == p {
			dst = append(dst, id)
		}
	}
	return dst
}

// RunItemDrop puts every requested item on the dropper's tile.
func RunItemDrop(ctx *Context) {
	w := ctx.World
	defer w.WantsToDrop.Clear()

	for _, dropper := range w.WantsToDrop.IDs() {
		drop, _ := w.WantsToDrop.Get(dropper)
		w.MustAlive(drop.Item, "WantsToDropItem item")

		pos, ok := w.Positions.Get(dropper)
		if !ok {
			panic(fmt.Errorf("%w: %s drops %s but has no position", domain.ErrContractViolation, dropper, drop.Item))
		}

		w.Positions.Insert(drop.Item, pos)
		w.InBackpack.Remove(drop.Item)

		if ctx.IsPlayer(dropper) {
			ctx.Log.Addf("You dropped the %s.", w.MustName(drop.Item))
		}
	}
}
