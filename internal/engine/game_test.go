package engine

import (
	"testing"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/dungeon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	g, err := NewGame(smallConfig(42))
	require.NoError(t, err)

	assert.Equal(t, StatePreRun, g.State.Kind)
	assert.Equal(t, "Welcome!", g.Ctx.Log.Latest())
	assert.Equal(t, 1, g.Ctx.Log.Len())

	m := g.Ctx.Map
	require.NotEmpty(t, m.Rooms)
	assert.Equal(t, m.Rooms[0].Center(), playerPos(g))

	for _, id := range g.Ctx.World.Monsters.IDs() {
		p, ok := g.Ctx.World.Positions.Get(id)
		require.True(t, ok)
		assert.False(t, m.Rooms[0].Contains(p), "monster %s spawned in the player's room", id)
	}
}

// assertIndexed checks that every blocker's tile is blocked and lists it. It
// returns how many blockers it saw.
func assertIndexed(t *testing.T, g *Game) int {
	t.Helper()
	w, m := g.Ctx.World, g.Ctx.Map
	for _, id := range w.Blockers.IDs() {
		p, ok := w.Positions.Get(id)
		require.True(t, ok)
		idx := m.IndexOf(p)
		assert.True(t, m.Blocked[idx], "tile of %s not blocked", id)
		assert.Contains(t, m.TileContent[idx], id)
	}
	return w.Blockers.Len()
}

func TestNewGame_OccupancyIndexedBeforeFirstPass(t *testing.T) {
	blockers := 0
	for seed := int64(1); seed <= 5; seed++ {
		g, err := NewGame(smallConfig(seed))
		require.NoError(t, err)
		blockers += assertIndexed(t, g)

		settle(t, g)
		step(t, g, domain.Simple(domain.CmdMenu))
		require.Equal(t, StatePreRun, step(t, g, domain.Simple(domain.CmdMenuConfirm)).Kind)
		blockers += assertIndexed(t, g)
	}
	assert.Positive(t, blockers)
}

func TestNewGame_InvalidConfig(t *testing.T) {
	cfg := smallConfig(1)
	cfg.Dungeon.Width = 5

	_, err := NewGame(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, dungeon.ErrInvalidConfig)
}

func TestStep_PreRunRunsPipeline(t *testing.T) {
	g := newBareGame(t, 20, 10)

	s := step(t, g, domain.Command{})

	assert.Equal(t, StateAwaitingInput, s.Kind)
	assert.Equal(t, uint64(1), g.Turn)
	vs, ok := g.Ctx.World.Viewsheds.Get(g.Ctx.Player)
	require.True(t, ok)
	assert.False(t, vs.Dirty)
	assert.True(t, g.Ctx.Map.Visible[g.Ctx.Map.IndexOf(playerPos(g))])
}

func TestStep_MoveSpendsTurn(t *testing.T) {
	g := newBareGame(t, 20, 10)
	settle(t, g)

	assert.Equal(t, StatePlayerTurn, step(t, g, domain.Move(1, 0)).Kind)
	assert.Equal(t, domain.Position{X: 3, Y: 2}, playerPos(g))
	assert.Equal(t, StateMonsterTurn, step(t, g, domain.Command{}).Kind)
	assert.Equal(t, StateAwaitingInput, step(t, g, domain.Command{}).Kind)
	assert.Equal(t, uint64(3), g.Turn)
}

func TestStep_PlayerActions(t *testing.T) {
	tests := []struct {
		name string
		cmd  domain.Command
		want RunStateKind
	}{
		{name: "wait", cmd: domain.Simple(domain.CmdWait), want: StatePlayerTurn},
		{name: "pickup with nothing there", cmd: domain.Simple(domain.CmdPickup), want: StatePlayerTurn},
		{name: "open inventory", cmd: domain.Simple(domain.CmdOpenInventory), want: StateShowInventory},
		{name: "open drop menu", cmd: domain.Simple(domain.CmdOpenDrop), want: StateShowDropItem},
		{name: "main menu", cmd: domain.Simple(domain.CmdMenu), want: StateMainMenu},
		{name: "target outside targeting", cmd: domain.SelectTarget(domain.Position{X: 3, Y: 3}), want: StateAwaitingInput},
		{name: "none", cmd: domain.Command{}, want: StateAwaitingInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newBareGame(t, 20, 10)
			settle(t, g)
			turn := g.Turn

			assert.Equal(t, tt.want, step(t, g, tt.cmd).Kind)
			assert.Equal(t, turn, g.Turn, "choosing an action must not run the pipeline")
		})
	}
}

func TestStep_PickupNothingLogs(t *testing.T) {
	g := newBareGame(t, 20, 10)
	settle(t, g)

	step(t, g, domain.Simple(domain.CmdPickup))
	assert.Equal(t, "There is nothing here to pick up.", g.Ctx.Log.Latest())
}

func TestStep_MenusCancel(t *testing.T) {
	for _, open := range []domain.CommandKind{domain.CmdOpenInventory, domain.CmdOpenDrop} {
		t.Run(open.String(), func(t *testing.T) {
			g := newBareGame(t, 20, 10)
			settle(t, g)

			step(t, g, domain.Simple(open))
			assert.Equal(t, StateAwaitingInput, step(t, g, domain.Simple(domain.CmdCancel)).Kind)
		})
	}
}

func TestInventory_UsePotion(t *testing.T) {
	g := newBareGame(t, 20, 10)
	w := g.Ctx.World
	potion := dungeon.HealthPotion.SpawnInBackpack(w, g.Ctx.Player)
	w.Stats.Ptr(g.Ctx.Player).HP = 10
	settle(t, g)

	step(t, g, domain.Simple(domain.CmdOpenInventory))
	assert.Equal(t, StatePlayerTurn, step(t, g, domain.SelectItem(0)).Kind)
	step(t, g, domain.Command{})

	assert.Equal(t, 18, playerStats(g).HP)
	assert.False(t, w.IsAlive(potion), "consumable must be removed in the same pass")
	assert.Contains(t, g.Ctx.Log.Entries(), "You use the Health Potion, healing 8")
}

func TestInventory_InvalidSlotIgnored(t *testing.T) {
	g := newBareGame(t, 20, 10)
	dungeon.HealthPotion.SpawnInBackpack(g.Ctx.World, g.Ctx.Player)
	settle(t, g)

	step(t, g, domain.Simple(domain.CmdOpenInventory))
	assert.Equal(t, StateShowInventory, step(t, g, domain.SelectItem(3)).Kind)
	assert.Equal(t, StateShowInventory, step(t, g, domain.SelectItem(-1)).Kind)
	assert.Equal(t, StateShowInventory, step(t, g, domain.Simple(domain.CmdWait)).Kind)
}

func TestTargeting_MagicMissile(t *testing.T) {
	g := newBareGame(t, 20, 10)
	w := g.Ctx.World
	orc := dummy(g, domain.Position{X: 5, Y: 2}, domain.CombatStats{MaxHP: 16, HP: 16, Defense: 1, Power: 4})
	scroll := dungeon.MagicMissileScroll.SpawnInBackpack(w, g.Ctx.Player)
	settle(t, g)

	step(t, g, domain.Simple(domain.CmdOpenInventory))
	s := step(t, g, domain.SelectItem(0))
	assert.Equal(t, RunState{Kind: StateShowTargeting, Range: 6, Item: scroll}, s)

	// Visible but seven tiles away.
	s = step(t, g, domain.SelectTarget(domain.Position{X: 9, Y: 2}))
	assert.Equal(t, StateShowTargeting, s.Kind)

	s = step(t, g, domain.SelectTarget(domain.Position{X: 5, Y: 2}))
	assert.Equal(t, StatePlayerTurn, s.Kind)
	step(t, g, domain.Command{})

	// Queued by the use pass, applied by the next pass's damage step.
	assert.False(t, w.IsAlive(scroll))
	assert.Contains(t, g.Ctx.Log.Entries(), "You use Magic Missile Scroll on Orc, inflicting 8 hp.")
	stats, ok := w.Stats.Get(orc)
	require.True(t, ok)
	assert.Equal(t, 16, stats.HP)

	step(t, g, domain.Command{})
	stats, _ = w.Stats.Get(orc)
	assert.Equal(t, 8, stats.HP)
	assert.False(t, w.SufferDamage.Has(orc))
}

func TestTargeting_Cancel(t *testing.T) {
	g := newBareGame(t, 20, 10)
	scroll := dungeon.FireballScroll.SpawnInBackpack(g.Ctx.World, g.Ctx.Player)
	settle(t, g)

	step(t, g, domain.Simple(domain.CmdOpenInventory))
	step(t, g, domain.SelectItem(0))
	require.Equal(t, StateShowTargeting, g.State.Kind)

	assert.Equal(t, StateAwaitingInput, step(t, g, domain.Simple(domain.CmdCancel)).Kind)
	assert.True(t, g.Ctx.World.InBackpack.Has(scroll))
}

func TestDropAndPickUp(t *testing.T) {
	g := newBareGame(t, 20, 10)
	w := g.Ctx.World
	potion := dungeon.HealthPotion.SpawnInBackpack(w, g.Ctx.Player)
	settle(t, g)

	step(t, g, domain.Simple(domain.CmdOpenDrop))
	assert.Equal(t, StatePlayerTurn, step(t, g, domain.SelectItem(0)).Kind)
	step(t, g, domain.Command{})

	p, onMap := w.Positions.Get(potion)
	require.True(t, onMap)
	assert.Equal(t, playerPos(g), p)
	assert.False(t, w.InBackpack.Has(potion))
	assert.Equal(t, "You dropped the Health Potion.", g.Ctx.Log.Latest())

	settle(t, g)
	step(t, g, domain.Simple(domain.CmdPickup))
	settle(t, g)

	b, held := w.InBackpack.Get(potion)
	require.True(t, held)
	assert.Equal(t, g.Ctx.Player, b.Owner)
	assert.False(t, w.Positions.Has(potion))
	assert.Contains(t, g.Ctx.Log.Entries(), "You pick up Health Potion")
}

func TestMelee_BumpAttack(t *testing.T) {
	g := newBareGame(t, 20, 10)
	w := g.Ctx.World
	w.Stats.Ptr(g.Ctx.Player).Power = 10
	orc := dummy(g, domain.Position{X: 3, Y: 2}, domain.CombatStats{MaxHP: 20, HP: 20, Defense: 3, Power: 4})
	settle(t, g)

	step(t, g, domain.Move(1, 0))
	assert.Equal(t, domain.Position{X: 2, Y: 2}, playerPos(g), "bumping must not move the player")
	step(t, g, domain.Command{})

	stats, _ := w.Stats.Get(orc)
	assert.Equal(t, 13, stats.HP)
	assert.Contains(t, g.Ctx.Log.Entries(), "Player hits Orc, for 7 hp.")
}

func TestDeath_RemovedAndUnblocked(t *testing.T) {
	g := newBareGame(t, 20, 10)
	w := g.Ctx.World
	orc := dummy(g, domain.Position{X: 3, Y: 2}, domain.CombatStats{MaxHP: 5, HP: 5, Defense: 0, Power: 4})
	settle(t, g)

	step(t, g, domain.Move(1, 0))
	removed := g.AdvanceTurn()

	assert.Equal(t, []string{"Orc is dead"}, filter(g.Ctx.Log.Entries(), "Orc is dead"))
	assert.Contains(t, removed, orc)
	assert.False(t, w.IsAlive(orc))
	assert.False(t, g.Ctx.Map.IsBlocked(g.Ctx.Map.Index(3, 2)))
}

func TestPlayerDeath_NotRemoved(t *testing.T) {
	g := newBareGame(t, 20, 10)
	w := g.Ctx.World
	w.Stats.Ptr(g.Ctx.Player).HP = 1
	orc := dungeon.Orc.Spawn(w, domain.Position{X: 3, Y: 2})
	w.Stats.Ptr(orc).Power = 10

	settle(t, g)

	assert.True(t, g.PlayerDead())
	assert.True(t, w.IsAlive(g.Ctx.Player))
	assert.Contains(t, g.Ctx.Log.Entries(), "You are dead")
}

func TestMonster_ChasesOneTilePerTurn(t *testing.T) {
	g := newBareGame(t, 20, 5)
	w := g.Ctx.World
	orc := dungeon.Orc.Spawn(w, domain.Position{X: 6, Y: 2})

	orcX := func() int {
		p, _ := w.Positions.Get(orc)
		return p.X
	}

	for _, want := range []int{5, 4, 3} {
		g.AdvanceTurn()
		assert.Equal(t, want, orcX())
	}
	assert.Equal(t, 30, playerStats(g).HP)

	g.AdvanceTurn()
	assert.Equal(t, 3, orcX(), "an adjacent monster attacks instead of moving")
	assert.Equal(t, 28, playerStats(g).HP)
}

func TestMainMenu_Selection(t *testing.T) {
	g := newBareGame(t, 20, 10)
	settle(t, g)

	s := step(t, g, domain.Simple(domain.CmdMenu))
	assert.Equal(t, RunState{Kind: StateMainMenu, Selection: MenuNewGame}, s)
	s = step(t, g, domain.Simple(domain.CmdMenuDown))
	assert.Equal(t, MenuQuit, s.Selection)
	s = step(t, g, domain.Simple(domain.CmdMenuUp))
	assert.Equal(t, MenuNewGame, s.Selection)
	assert.Equal(t, StateAwaitingInput, step(t, g, domain.Simple(domain.CmdCancel)).Kind)
}

func TestMainMenu_Quit(t *testing.T) {
	g := newBareGame(t, 20, 10)
	settle(t, g)

	step(t, g, domain.Simple(domain.CmdMenu))
	step(t, g, domain.Simple(domain.CmdMenuDown))
	_, err := g.Step(domain.Simple(domain.CmdMenuConfirm))
	assert.ErrorIs(t, err, ErrQuit)
}

func TestMainMenu_NewGame(t *testing.T) {
	g, err := NewGame(smallConfig(7))
	require.NoError(t, err)
	settle(t, g)
	step(t, g, domain.Simple(domain.CmdWait))
	settle(t, g)
	oldWorld := g.Ctx.World

	step(t, g, domain.Simple(domain.CmdMenu))
	s := step(t, g, domain.Simple(domain.CmdMenuConfirm))

	assert.Equal(t, StatePreRun, s.Kind)
	assert.NotSame(t, oldWorld, g.Ctx.World)
	assert.Equal(t, 1, g.Ctx.Log.Len())
	assert.Equal(t, "Welcome!", g.Ctx.Log.Latest())
	assert.True(t, g.Ctx.World.IsAlive(g.Ctx.Player))
}

func TestStep_RecordsConsumedCommands(t *testing.T) {
	g := newBareGame(t, 20, 10)
	settle(t, g)

	step(t, g, domain.Move(1, 0))
	settle(t, g)
	step(t, g, domain.Simple(domain.CmdOpenInventory))

	cmds := g.Replay().Commands
	require.Len(t, cmds, 2)
	assert.Equal(t, domain.Move(1, 0), cmds[0].Command)
	assert.Equal(t, uint32(1), cmds[0].Step, "the PreRun step comes first")
	assert.Equal(t, domain.CmdOpenInventory, cmds[1].Command.Kind)
	assert.Equal(t, uint32(4), cmds[1].Step)
}

func filter(entries []string, text string) []string {
	var out []string
	for _, e := range entries {
		if e == text {
			out = append(out, e)
		}
	}
	return out
}
