package agent

import (
	"context"
	"os"
	"testing"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine"
	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// room returns a 10x10 snapshot with floor inside a wall ring. Only tiles
// with x <= revealTo are part of it.
func room(revealTo int, player api.PositionView, hp int) *api.Snapshot {
	snap := &api.Snapshot{
		Turn:     10,
		State:    engine.StateAwaitingInput.String(),
		PlayerID: "p",
		Grid:     &api.GridMeta{Width: 10, Height: 10},
	}
	for y := 0; y < 10; y++ {
		for x := 0; x <= revealTo && x < 10; x++ {
			wall := x == 0 || y == 0 || x == 9 || y == 9
			snap.Map = append(snap.Map, api.TileView{X: x, Y: y, IsWall: wall, IsVisible: true})
		}
	}
	snap.Entities = append(snap.Entities, api.EntityView{
		ID: "p", Type: "PLAYER", Pos: player,
		Stats: &api.StatsView{HP: hp, MaxHP: 30, IsDead: hp < 1},
	})
	return snap
}

func withMonster(snap *api.Snapshot, p api.PositionView) *api.Snapshot {
	snap.Entities = append(snap.Entities, api.EntityView{
		ID: "m", Type: "MONSTER", Pos: p,
		Stats: &api.StatsView{HP: 16, MaxHP: 16},
	})
	return snap
}

func next(t *testing.T, b *Bot, snap *api.Snapshot) domain.Command {
	t.Helper()
	cmd, err := b.NextCommand(context.Background(), snap)
	require.NoError(t, err)
	return cmd
}

func TestBot_AttacksAdjacent(t *testing.T) {
	snap := withMonster(room(9, api.PositionView{X: 4, Y: 4}, 30), api.PositionView{X: 5, Y: 5})
	assert.Equal(t, domain.Move(1, 1), next(t, NewBot(0), snap))
}

func TestBot_ChasesVisibleMonster(t *testing.T) {
	snap := withMonster(room(9, api.PositionView{X: 2, Y: 4}, 30), api.PositionView{X: 8, Y: 4})
	assert.Equal(t, domain.Move(1, 0), next(t, NewBot(0), snap))
}

func TestBot_FiresRangedItem(t *testing.T) {
	b := NewBot(0)
	snap := withMonster(room(9, api.PositionView{X: 2, Y: 4}, 30), api.PositionView{X: 6, Y: 4})
	snap.Inventory = []api.ItemView{{ID: "s", Name: "Magic Missile Scroll", Range: 6, Damage: 8}}

	assert.Equal(t, domain.Simple(domain.CmdOpenInventory), next(t, b, snap))

	snap.State = engine.StateShowInventory.String()
	assert.Equal(t, domain.SelectItem(0), next(t, b, snap))

	snap.State = engine.StateShowTargeting.String()
	snap.Targets = []api.PositionView{{X: 5, Y: 4}, {X: 6, Y: 4}}
	assert.Equal(t, domain.SelectTarget(domain.Position{X: 6, Y: 4}), next(t, b, snap))
}

func TestBot_HoldsFireAfterCancel(t *testing.T) {
	b := NewBot(0)
	snap := withMonster(room(9, api.PositionView{X: 2, Y: 4}, 30), api.PositionView{X: 6, Y: 4})
	snap.Inventory = []api.ItemView{{ID: "s", Range: 6, Damage: 8}}

	snap.State = engine.StateShowTargeting.String()
	assert.Equal(t, domain.Simple(domain.CmdCancel), next(t, b, snap))

	snap.State = engine.StateAwaitingInput.String()
	assert.Equal(t, domain.Move(1, 0), next(t, b, snap), "walks instead of reopening the backpack")
}

func TestBot_DrinksWhenHurt(t *testing.T) {
	b := NewBot(0)
	snap := room(9, api.PositionView{X: 2, Y: 4}, 10)
	snap.Inventory = []api.ItemView{
		{ID: "s", Range: 6, Damage: 8},
		{ID: "h", Name: "Health Potion", Consumable: true, Healing: 8},
	}

	assert.Equal(t, domain.Simple(domain.CmdOpenInventory), next(t, b, snap))
	snap.State = engine.StateShowInventory.String()
	assert.Equal(t, domain.SelectItem(1), next(t, b, snap))
}

func TestBot_PicksUpOnce(t *testing.T) {
	b := NewBot(0)
	snap := room(9, api.PositionView{X: 2, Y: 4}, 30)
	snap.Entities = append(snap.Entities, api.EntityView{ID: "i", Type: "ITEM", Pos: api.PositionView{X: 2, Y: 4}})

	assert.Equal(t, domain.Simple(domain.CmdPickup), next(t, b, snap))
	assert.Equal(t, domain.Simple(domain.CmdWait), next(t, b, snap), "item that stayed put is skipped")
}

func TestBot_WalksToItem(t *testing.T) {
	snap := room(9, api.PositionView{X: 2, Y: 4}, 30)
	snap.Entities = append(snap.Entities, api.EntityView{ID: "i", Type: "ITEM", Pos: api.PositionView{X: 2, Y: 7}})
	assert.Equal(t, domain.Move(0, 1), next(t, NewBot(0), snap))
}

func TestBot_ExploresFrontier(t *testing.T) {
	snap := room(4, api.PositionView{X: 2, Y: 4}, 30)
	assert.Equal(t, domain.Move(1, 0), next(t, NewBot(0), snap))
}

func TestBot_StopsConditions(t *testing.T) {
	t.Run("dead player", func(t *testing.T) {
		_, err := NewBot(0).NextCommand(context.Background(), room(9, api.PositionView{X: 2, Y: 4}, 0))
		assert.ErrorIs(t, err, engine.ErrEndOfInput)
	})
	t.Run("limit", func(t *testing.T) {
		b := NewBot(1)
		snap := room(9, api.PositionView{X: 2, Y: 4}, 30)
		next(t, b, snap)
		_, err := b.NextCommand(context.Background(), snap)
		assert.ErrorIs(t, err, engine.ErrEndOfInput)
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewBot(0).NextCommand(ctx, room(9, api.PositionView{X: 2, Y: 4}, 30))
		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("menus", func(t *testing.T) {
		snap := room(9, api.PositionView{X: 2, Y: 4}, 30)
		snap.State = engine.StateMainMenu.String()
		assert.Equal(t, domain.Simple(domain.CmdCancel), next(t, NewBot(0), snap))
		snap.State = engine.StateShowDropItem.String()
		assert.Equal(t, domain.Simple(domain.CmdCancel), next(t, NewBot(0), snap))
	})
}

func TestBot_PlaysFullGame(t *testing.T) {
	play := func() *engine.Game {
		cfg := engine.NewConfig()
		cfg.Seed = 7
		cfg.Dungeon.Width = 40
		cfg.Dungeon.Height = 30
		cfg.Dungeon.MaxRooms = 12

		g, err := engine.NewGame(cfg)
		require.NoError(t, err)
		require.NoError(t, g.Run(context.Background(), NewBot(300)))
		return g
	}

	a := play()
	assert.Greater(t, a.Turn, uint64(1))
	assert.Zero(t, a.Ctx.World.Intents())

	revealed := 0
	for _, r := range a.Ctx.Map.Revealed {
		if r {
			revealed++
		}
	}
	assert.Positive(t, revealed)

	b := play()
	assert.Equal(t, a.Turn, b.Turn)
	assert.Equal(t, a.Ctx.Log.Entries(), b.Ctx.Log.Entries())
}
