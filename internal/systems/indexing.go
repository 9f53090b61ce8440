package systems

import (
	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/domain"
)

// RunMapIndex rebuilds Blocked and TileContent from scratch: walls block,
// then every positioned entity is listed on its tile and BlocksTile owners
// block it. Nothing from the previous turn survives.
func RunMapIndex(ctx *Context) {
	m := ctx.Map
	w := ctx.World

	m.PopulateBlocked()
	m.ClearContentIndex()

	w.Positions.Each(func(id types.EntityID, pos *domain.Position) {
		if !m.InBounds(pos.X, pos.Y) {
			return
		}
		idx := m.IndexOf(*pos)
		if w.Blockers.Has(id) {
			m.Blocked[idx] = true
		}
		m.TileContent[idx] = append(m.TileContent[idx], id)
	})
}
