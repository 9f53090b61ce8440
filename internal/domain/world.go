package domain

import (
	"fmt"

	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/core/types/enums"
)

// World is the entity/component store. It is owned by the simulation loop and
// is not safe for concurrent use.
type World struct {
	Entities *Entities
	stores   []componentStore

	Positions   *Storage[Position]
	Renderables *Storage[Renderable]
	Names       *Storage[Name]
	Viewsheds   *Storage[Viewshed]
	Stats       *Storage[CombatStats]
	Players     *Storage[Player]
	Monsters    *Storage[Monster]
	Items       *Storage[Item]
	Blockers    *Storage[BlocksTile]

	Consumables  *Storage[Consumable]
	Ranged       *Storage[Ranged]
	Damaging     *Storage[InflictsDamage]
	Healing      *Storage[ProvidesHealing]
	AreaOfEffect *Storage[AreaOfEffect]
	Confusion    *Storage[Confusion]
	InBackpack   *Storage[InBackpack]

	WantsToMelee  *Storage[WantsToMelee]
	WantsToPickup *Storage[WantsToPickupItem]
	WantsToUse    *Storage[WantsToUseItem]
	WantsToDrop   *Storage[WantsToDropItem]
	SufferDamage  *Storage[SufferDamage]
}

func NewWorld(shard uint8) *World {
	w := &World{Entities: NewEntities(shard)}

	w.Positions = newStorage[Position](w, "Position")
	w.Renderables = newStorage[Renderable](w, "Renderable")
	w.Names = newStorage[Name](w, "Name")
	w.Viewsheds = newStorage[Viewshed](w, "Viewshed")
	w.Stats = newStorage[CombatStats](w, "CombatStats")
	w.Players = newStorage[Player](w, "Player")
	w.Monsters = newStorage[Monster](w, "Monster")
	w.Items = newStorage[Item](w, "Item")
	w.Blockers = newStorage[BlocksTile](w, "BlocksTile")

	w.Consumables = newStorage[Consumable](w, "Consumable")
	w.Ranged = newStorage[Ranged](w, "Ranged")
	w.Damaging = newStorage[InflictsDamage](w, "InflictsDamage")
	w.Healing = newStorage[ProvidesHealing](w, "ProvidesHealing")
	w.AreaOfEffect = newStorage[AreaOfEffect](w, "AreaOfEffect")
	w.Confusion = newStorage[Confusion](w, "Confusion")
	w.InBackpack = newStorage[InBackpack](w, "InBackpack")

	w.WantsToMelee = newStorage[WantsToMelee](w, "WantsToMelee")
	w.WantsToPickup = newStorage[WantsToPickupItem](w, "WantsToPickupItem")
	w.WantsToUse = newStorage[WantsToUseItem](w, "WantsToUseItem")
	w.WantsToDrop = newStorage[WantsToDropItem](w, "WantsToDropItem")
	w.SufferDamage = newStorage[SufferDamage](w, "SufferDamage")

	return w
}

func (w *World) Create(kind enums.EntityType) types.EntityID {
	return w.Entities.Create(kind)
}

func (w *World) IsAlive(id types.EntityID) bool {
	return w.Entities.IsAlive(id)
}

// Delete detaches every component and frees the slot. Callers iterating a
// storage must collect victims first and delete after the loop.
func (w *World) Delete(id types.EntityID) error {
	if !w.IsAlive(id) {
		return fmt.Errorf("delete %s: %w", id, ErrStaleEntity)
	}
	for _, s := range w.stores {
		s.remove(id)
	}
	return w.Entities.destroy(id)
}

// MustAlive panics with ErrContractViolation when id is dead. Systems call it
// on every handle they read out of an intent.
func (w *World) MustAlive(id types.EntityID, what string) {
	if !w.IsAlive(id) {
		panic(fmt.Errorf("%w: %s refers to %s: %w", ErrContractViolation, what, id, ErrStaleEntity))
	}
}

// ComponentNames lists the components attached to id, in registration order.
func (w *World) ComponentNames(id types.EntityID) []string {
	var names []string
	for _, s := range w.stores {
		if s.Has(id) {
			names = append(names, s.Name())
		}
	}
	return names
}

// NameOf returns the entity's Name or fallback.
func (w *World) NameOf(id types.EntityID, fallback string) string {
	if n, ok := w.Names.Get(id); ok {
		return n.Name
	}
	return fallback
}

// MustName is NameOf for entities that are required to have a name.
func (w *World) MustName(id types.EntityID) string {
	n, ok := w.Names.Get(id)
	if !ok {
		panic(fmt.Errorf("%w: entity %s has no Name", ErrContractViolation, id))
	}
	return n.Name
}

// AddDamage queues damage on victim, summing with anything already queued
// this turn.
func (w *World) AddDamage(victim types.EntityID, amount int) {
	if p := w.SufferDamage.Ptr(victim); p != nil {
		p.Amount += amount
		return
	}
	w.SufferDamage.Insert(victim, SufferDamage{Amount: amount})
}

// MoveTo sets a new position and marks the viewshed dirty, keeping the
// "dirty on move" invariant in one place.
func (w *World) MoveTo(id types.EntityID, p Position) {
	w.Positions.Insert(id, p)
	if vs := w.Viewsheds.Ptr(id); vs != nil {
		vs.Dirty = true
	}
}

// InvalidateViewsheds forces every actor to recompute its field of view,
// used after the map itself changes.
func (w *World) InvalidateViewsheds() {
	w.Viewsheds.Each(func(_ types.EntityID, vs *Viewshed) {
		vs.Dirty = true
	})
}

// Backpack lists the items held by owner in slot order.
func (w *World) Backpack(owner types.EntityID) []types.EntityID {
	var items []types.EntityID
	w.InBackpack.Each(func(id types.EntityID, b *InBackpack) {
		if b.Owner == owner {
			items = append(items, id)
		}
	})
	return items
}

// Intents counts queued WantsTo* intents; it must be zero after a full
// pipeline pass. SufferDamage is not counted: damage queued by item use runs
// after the Damage system and is applied at the start of the next pass.
func (w *World) Intents() int {
	return w.WantsToMelee.Len() + w.WantsToPickup.Len() + w.WantsToUse.Len() +
		w.WantsToDrop.Len()
}
