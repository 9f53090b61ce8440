package systems

import (
	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/domain"
)

// RunVisibility recomputes every dirty viewshed and clears its flag. Every
// visible tile is marked revealed; the player's viewshed also replaces the
// map's current-view layer.
func RunVisibility(ctx *Context) {
	m := ctx.Map
	w := ctx.World

	w.Viewsheds.Each(func(id types.EntityID, vs *domain.Viewshed) {
		if !vs.Dirty {
			return
		}
		pos, ok := w.Positions.Get(id)
		if !ok {
			return
		}

		vs.Visible = ComputeFOV(m, pos, vs.Range)
		vs.Dirty = false

		isPlayer := w.Players.Has(id)
		if isPlayer {
			m.ResetVisible()
		}
		for _, p := range vs.Visible {
			idx := m.IndexOf(p)
			m.Revealed[idx] = true
			if isPlayer {
				m.Visible[idx] = true
			}
		}
	})
}
