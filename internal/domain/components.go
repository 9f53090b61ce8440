package domain

import "dungeon-kernel/internal/core/types"

// --- Placement and presentation ---

// Renderable is read only by renderers. Lower Order draws on top.
type Renderable struct {
	Glyph types.Glyph `json:"glyph"`
	Order int         `json:"order"`
}

// Name labels an entity in log messages. Anything that can fight or be hurt
// must have one.
type Name struct {
	Name string `json:"name"`
}

// Viewshed is the set of tiles an actor currently sees. Dirty must be set
// whenever the owner moves or the map changes.
type Viewshed struct {
	Range   int        `json:"range"`
	Visible []Position `json:"visible"`
	Dirty   bool       `json:"dirty"`
}

// CanSee reports whether p is in the current visible set.
func (v *Viewshed) CanSee(p Position) bool {
	for _, t := range v.Visible {
		if t == p {
			return true
		}
	}
	return false
}

// --- Markers ---

type Player struct{}

type Monster struct{}

type Item struct{}

// BlocksTile makes the owner's tile impassable to movement. It does not stop
// damage or area effects.
type BlocksTile struct{}

// --- Item effect tags. Any subset may appear on the same item. ---

type Consumable struct{}

type Ranged struct {
	Range int `json:"range"`
}

type InflictsDamage struct {
	Damage int `json:"damage"`
}

type ProvidesHealing struct {
	HealAmount int `json:"healAmount"`
}

type AreaOfEffect struct {
	Radius int `json:"radius"`
}

// Confusion is both an item tag (how long it confuses for) and the status it
// leaves on a target.
type Confusion struct {
	Turns int `json:"turns"`
}

// InBackpack marks a held item. An item has either InBackpack or Position,
// never both.
type InBackpack struct {
	Owner types.EntityID `json:"owner"`
}

// --- Intents. Each lives for exactly one pipeline pass. ---

type WantsToMelee struct {
	Target types.EntityID
}

type WantsToPickupItem struct {
	CollectedBy types.EntityID
	Item        types.EntityID
}

// WantsToUseItem targets the user when Target is nil.
type WantsToUseItem struct {
	Item   types.EntityID
	Target *Position
}

type WantsToDropItem struct {
	Item types.EntityID
}

// SufferDamage accumulates every hit an entity takes in one turn.
type SufferDamage struct {
	Amount int
}
