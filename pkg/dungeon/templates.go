package dungeon

import (
	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/core/types/enums"
	"dungeon-kernel/internal/domain"
)

// Render orders: actors draw over items, items over the floor.
const (
	OrderPlayer  = 0
	OrderMonster = 1
	OrderItem    = 2
)

const DefaultViewRange = 8

// MonsterTemplate describes a hostile actor.
type MonsterTemplate struct {
	Name      string
	Glyph     types.Glyph
	Stats     domain.CombatStats
	ViewRange int
}

// Spawn creates the monster at pos. Monsters block their tile.
func (t MonsterTemplate) Spawn(w *domain.World, pos domain.Position) types.EntityID {
	id := w.Create(enums.EntityTypeMonster)
	w.Positions.Insert(id, pos)
	w.Renderables.Insert(id, domain.Renderable{Glyph: t.Glyph, Order: OrderMonster})
	w.Viewsheds.Insert(id, domain.Viewshed{Range: t.ViewRange, Dirty: true})
	w.Monsters.Insert(id, domain.Monster{})
	w.Names.Insert(id, domain.Name{Name: t.Name})
	w.Blockers.Insert(id, domain.BlocksTile{})
	stats := t.Stats
	stats.HP = stats.MaxHP
	w.Stats.Insert(id, stats)
	return id
}

var Orc = MonsterTemplate{
	Name:      "Orc",
	Glyph:     types.MakeGlyph(0xFF0000, 'o'),
	Stats:     domain.CombatStats{MaxHP: 16, Defense: 1, Power: 4},
	ViewRange: DefaultViewRange,
}

var Goblin = MonsterTemplate{
	Name:      "Goblin",
	Glyph:     types.MakeGlyph(0xFF0000, 'g'),
	Stats:     domain.CombatStats{MaxHP: 16, Defense: 1, Power: 3},
	ViewRange: DefaultViewRange,
}

// ItemTemplate is a set of effect tags. Zero fields are left off the entity,
// so any combination of effects can be expressed.
type ItemTemplate struct {
	Name       string
	Glyph      types.Glyph
	Consumable bool
	Range      int
	Damage     int
	Healing    int
	Radius     int
	Confusion  int
}

func (t ItemTemplate) Spawn(w *domain.World, pos domain.Position) types.EntityID {
	id := t.create(w)
	w.Positions.Insert(id, pos)
	return id
}

// SpawnInBackpack creates the item already held by owner.
func (t ItemTemplate) SpawnInBackpack(w *domain.World, owner types.EntityID) types.EntityID {
	id := t.create(w)
	w.InBackpack.Insert(id, domain.InBackpack{Owner: owner})
	return id
}

func (t ItemTemplate) create(w *domain.World) types.EntityID {
	id := w.Create(enums.EntityTypeItem)
	w.Items.Insert(id, domain.Item{})
	w.Names.Insert(id, domain.Name{Name: t.Name})
	w.Renderables.Insert(id, domain.Renderable{Glyph: t.Glyph, Order: OrderItem})
	if t.Consumable {
		w.Consumables.Insert(id, domain.Consumable{})
	}
	if t.Range > 0 {
		w.Ranged.Insert(id, domain.Ranged{Range: t.Range})
	}
	if t.Damage > 0 {
		w.Damaging.Insert(id, domain.InflictsDamage{Damage: t.Damage})
	}
	if t.Healing > 0 {
		w.Healing.Insert(id, domain.ProvidesHealing{HealAmount: t.Healing})
	}
	if t.Radius > 0 {
		w.AreaOfEffect.Insert(id, domain.AreaOfEffect{Radius: t.Radius})
	}
	if t.Confusion > 0 {
		w.Confusion.Insert(id, domain.Confusion{Turns: t.Confusion})
	}
	return id
}

var HealthPotion = ItemTemplate{
	Name:       "Health Potion",
	Glyph:      types.MakeGlyph(0xFF00FF, '!'),
	Consumable: true,
	Healing:    8,
}

var MagicMissileScroll = ItemTemplate{
	Name:       "Magic Missile Scroll",
	Glyph:      types.MakeGlyph(0x00FFFF, ')'),
	Consumable: true,
	Range:      6,
	Damage:     8,
}

var FireballScroll = ItemTemplate{
	Name:       "Fireball Scroll",
	Glyph:      types.MakeGlyph(0xFFA500, ')'),
	Consumable: true,
	Range:      6,
	Damage:     20,
	Radius:     3,
}

var ConfusionScroll = ItemTemplate{
	Name:       "Confusion Scroll",
	Glyph:      types.MakeGlyph(0xFFC0CB, ')'),
	Consumable: true,
	Range:      6,
	Confusion:  4,
}

// MonsterTemplates and ItemTemplates are looked up by the debug spawn route.
var MonsterTemplates = map[string]MonsterTemplate{
	"orc":    Orc,
	"goblin": Goblin,
}

var ItemTemplates = map[string]ItemTemplate{
	"health_potion": HealthPotion,
	"magic_missile": MagicMissileScroll,
	"fireball":      FireballScroll,
	"confusion":     ConfusionScroll,
}
