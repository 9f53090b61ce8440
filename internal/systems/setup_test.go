package systems

import (
	"os"
	"testing"

	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/core/types/enums"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"
	"dungeon-kernel/pkg/rng"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// newTestContext builds a w x h map that is floor everywhere except the outer
// ring, with an empty world and log.
func newTestContext(w, h int) *Context {
	m := domain.NewMap(w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			m.SetTile(x, y, domain.TileFloor)
		}
	}
	m.PopulateBlocked()
	return &Context{
		World: domain.NewWorld(0),
		Map:   m,
		Log:   domain.NewGameLog(),
		RNG:   rng.New(1),
	}
}

func addPlayer(ctx *Context, p domain.Position) types.EntityID {
	w := ctx.World
	id := w.Create(enums.EntityTypePlayer)
	w.Positions.Insert(id, p)
	w.Players.Insert(id, domain.Player{})
	w.Names.Insert(id, domain.Name{Name: "Player"})
	w.Viewsheds.Insert(id, domain.Viewshed{Range: 8, Dirty: true})
	w.Stats.Insert(id, domain.CombatStats{MaxHP: 30, HP: 30, Defense: 2, Power: 5})
	ctx.Player = id
	return id
}

func addMonster(ctx *Context, name string, p domain.Position, stats domain.CombatStats) types.EntityID {
	w := ctx.World
	id := w.Create(enums.EntityTypeMonster)
	w.Positions.Insert(id, p)
	w.Monsters.Insert(id, domain.Monster{})
	w.Names.Insert(id, domain.Name{Name: name})
	w.Viewsheds.Insert(id, domain.Viewshed{Range: 8, Dirty: true})
	w.Blockers.Insert(id, domain.BlocksTile{})
	w.Stats.Insert(id, stats)
	return id
}

func addItem(ctx *Context, name string, p *domain.Position) types.EntityID {
	w := ctx.World
	id := w.Create(enums.EntityTypeItem)
	w.Items.Insert(id, domain.Item{})
	w.Names.Insert(id, domain.Name{Name: name})
	if p != nil {
		w.Positions.Insert(id, *p)
	}
	return id
}

func wall(ctx *Context, x, y int) {
	ctx.Map.SetTile(x, y, domain.TileWall)
	ctx.Map.PopulateBlocked()
}

func pos(x, y int) domain.Position {
	return domain.Position{X: x, Y: y}
}

func ptr(p domain.Position) *domain.Position {
	return &p
}
