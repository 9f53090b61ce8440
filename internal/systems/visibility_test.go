package systems

import (
	"testing"

	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVisibility_PlayerWritesVisibleLayer(t *testing.T) {
	ctx := newTestContext(30, 30)
	player := addPlayer(ctx, pos(5, 5))

	RunVisibility(ctx)

	vs := ctx.World.Viewsheds.Ptr(player)
	require.NotNil(t, vs)
	assert.False(t, vs.Dirty)
	assert.True(t, vs.CanSee(pos(5, 5)))
	assert.True(t, ctx.Map.Visible[ctx.Map.Index(5, 5)])
	assert.True(t, ctx.Map.Revealed[ctx.Map.Index(8, 5)])
	assert.False(t, ctx.Map.Visible[ctx.Map.Index(25, 25)])

	// Moving away drops the old tiles from the visible layer but keeps them revealed.
	ctx.World.MoveTo(player, pos(25, 25))
	RunVisibility(ctx)

	assert.False(t, ctx.Map.Visible[ctx.Map.Index(5, 5)])
	assert.True(t, ctx.Map.Revealed[ctx.Map.Index(5, 5)])
	assert.True(t, ctx.Map.Visible[ctx.Map.Index(25, 25)])
}

func TestRunVisibility_MonsterDoesNotTouchVisibleLayer(t *testing.T) {
	ctx := newTestContext(30, 30)
	monster := addMonster(ctx, "Orc", pos(20, 20), domain.CombatStats{MaxHP: 10, HP: 10})

	RunVisibility(ctx)

	assert.True(t, ctx.World.Viewsheds.Ptr(monster).CanSee(pos(21, 21)))
	assert.False(t, ctx.Map.Visible[ctx.Map.Index(20, 20)])
	assert.True(t, ctx.Map.Revealed[ctx.Map.Index(20, 20)])
}

func TestRunVisibility_CleanViewshedIsKept(t *testing.T) {
	ctx := newTestContext(20, 20)
	player := addPlayer(ctx, pos(5, 5))
	RunVisibility(ctx)
	before := append([]domain.Position(nil), ctx.World.Viewsheds.Ptr(player).Visible...)

	// A position change without the dirty flag is not picked up.
	ctx.World.Positions.Insert(player, pos(15, 15))
	RunVisibility(ctx)

	assert.Equal(t, before, ctx.World.Viewsheds.Ptr(player).Visible)

	ctx.World.InvalidateViewsheds()
	RunVisibility(ctx)
	assert.True(t, ctx.World.Viewsheds.Ptr(player).CanSee(pos(15, 15)))
}

func TestRunMapIndex(t *testing.T) {
	ctx := newTestContext(10, 10)
	player := addPlayer(ctx, pos(2, 2))
	orc := addMonster(ctx, "Orc", pos(4, 4), domain.CombatStats{MaxHP: 10, HP: 10})
	potion := addItem(ctx, "Potion", ptr(pos(4, 4)))
	held := addItem(ctx, "Scroll", nil)
	ctx.World.InBackpack.Insert(held, domain.InBackpack{Owner: player})

	// Leftovers from a previous turn must not survive.
	ctx.Map.Blocked[ctx.Map.Index(7, 7)] = true
	ctx.Map.TileContent[ctx.Map.Index(7, 7)] = append(ctx.Map.TileContent[ctx.Map.Index(7, 7)], orc)

	RunMapIndex(ctx)

	m := ctx.Map
	assert.True(t, m.IsBlocked(m.Index(4, 4)), "monster blocks")
	assert.False(t, m.IsBlocked(m.Index(2, 2)), "player does not block")
	assert.True(t, m.IsBlocked(m.Index(0, 0)), "walls block")
	assert.False(t, m.IsBlocked(m.Index(7, 7)))
	assert.Empty(t, m.OccupantsAt(m.Index(7, 7)))
	assert.ElementsMatch(t, []types.EntityID{orc, potion}, m.OccupantsAt(m.Index(4, 4)))
	assert.Equal(t, 1, len(m.OccupantsAt(m.Index(2, 2))))

	for _, occ := range m.TileContent {
		assert.NotContains(t, occ, held)
	}
}
