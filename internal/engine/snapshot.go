package engine

import (
	"sort"

	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/core/types/enums"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/systems"
	"dungeon-kernel/pkg/api"
)

// SnapshotLogLimit is how many log lines a snapshot carries.
const SnapshotLogLimit = 5

var floorColors = [...]string{"#3A3A3A", "#343434", "#2E2E30", "#30302C"}

const (
	wallColor = "#00FF00"
	fogColor  = "#555555"
)

// Snapshot builds the player's picture of the run. It reads the world but
// never changes it.
func (g *Game) Snapshot() *api.Snapshot {
	ctx := g.Ctx
	w := ctx.World
	m := ctx.Map

	snap := &api.Snapshot{
		Type:     "UPDATE",
		Turn:     g.Turn,
		State:    g.State.Kind.String(),
		PlayerID: ctx.Player.String(),
		Grid:     &api.GridMeta{Width: m.Width, Height: m.Height},
		Logs:     ctx.Log.Recent(SnapshotLogLimit),
	}
	if g.State.Kind == StateMainMenu {
		snap.MenuSelection = g.State.Selection.String()
	}

	// 1. Revealed tiles; the visible layer decides brightness.
	for idx := 0; idx < m.Len(); idx++ {
		if !m.Revealed[idx] {
			continue
		}
		x, y := m.XY(idx)
		tv := api.TileView{
			X: x, Y: y,
			IsVisible: m.Visible[idx],
			Env:       int(m.Env[idx]),
			Symbol:    ".",
			Color:     floorColors[int(m.Env[idx])%len(floorColors)],
		}
		if m.Tiles[idx] == domain.TileWall {
			tv.IsWall = true
			tv.Symbol = "#"
			tv.Color = wallColor
		}
		if !tv.IsVisible {
			tv.Color = fogColor
		}
		snap.Map = append(snap.Map, tv)
	}

	// 2. Entities on visible tiles, plus the player wherever they are.
	w.Positions.Each(func(id types.EntityID, p *domain.Position) {
		if id != ctx.Player && (!m.InBounds(p.X, p.Y) || !m.Visible[m.IndexOf(*p)]) {
			return
		}
		snap.Entities = append(snap.Entities, g.entityView(id, *p))
	})
	// Higher orders first, so a renderer drawing in slice order puts actors
	// over items.
	sort.SliceStable(snap.Entities, func(i, j int) bool {
		return snap.Entities[i].Render.Order > snap.Entities[j].Render.Order
	})

	// 3. Backpack in slot order.
	for _, item := range w.Backpack(ctx.Player) {
		snap.Inventory = append(snap.Inventory, g.itemView(item))
	}

	// 4. Target overlay.
	if g.State.Kind == StateShowTargeting {
		for _, p := range systems.ValidTargets(ctx, g.State.Range) {
			snap.Targets = append(snap.Targets, api.PositionView{X: p.X, Y: p.Y})
		}
	}

	return snap
}

func (g *Game) entityView(id types.EntityID, p domain.Position) api.EntityView {
	w := g.Ctx.World

	view := api.EntityView{
		ID:   id.String(),
		Type: enums.EntityType(id.Type()).String(),
		Name: w.NameOf(id, ""),
		Pos:  api.PositionView{X: p.X, Y: p.Y},
	}
	if r, ok := w.Renderables.Get(id); ok {
		view.Render.Symbol = string(r.Glyph.Char())
		view.Render.Color = r.Glyph.HexColor()
		view.Render.Order = r.Order
	}
	if s, ok := w.Stats.Get(id); ok {
		view.Stats = &api.StatsView{
			HP:      s.HP,
			MaxHP:   s.MaxHP,
			Defense: s.Defense,
			Power:   s.Power,
			IsDead:  s.IsDead(),
		}
	}
	// Items carry a Confusion tag too; only actors can be confused by it.
	if c, ok := w.Confusion.Get(id); ok && !w.Items.Has(id) {
		view.Confused = c.Turns
	}
	return view
}

func (g *Game) itemView(id types.EntityID) api.ItemView {
	w := g.Ctx.World

	view := api.ItemView{
		ID:         id.String(),
		Name:       w.NameOf(id, ""),
		Consumable: w.Consumables.Has(id),
	}
	if r, ok := w.Renderables.Get(id); ok {
		view.Symbol = string(r.Glyph.Char())
		view.Color = r.Glyph.HexColor()
	}
	if r, ok := w.Ranged.Get(id); ok {
		view.Range = r.Range
	}
	if d, ok := w.Damaging.Get(id); ok {
		view.Damage = d.Damage
	}
	if h, ok := w.Healing.Get(id); ok {
		view.Healing = h.HealAmount
	}
	if a, ok := w.AreaOfEffect.Get(id); ok {
		view.Radius = a.Radius
	}
	if c, ok := w.Confusion.Get(id); ok {
		view.Confusion = c.Turns
	}
	return view
}
