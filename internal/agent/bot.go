// Package agent holds a headless player. The bot sees exactly what a remote
// client sees, one snapshot at a time, and answers with commands.
package agent

import (
	"context"
	"sort"

	"dungeon-kernel/internal/core/types/enums"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine"
	"dungeon-kernel/internal/systems"
	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// frontierProbes is how many of the nearest unexplored edges get a full A*
// search before the bot gives up exploring for this turn.
const frontierProbes = 6

// Bot is an engine.Input that plays on its own. Priorities, highest first:
// drink a potion when badly hurt, fire a ranged item at a visible monster,
// hit an adjacent monster, close in on a visible one, grab items, explore.
type Bot struct {
	// Limit caps the commands the bot will issue; zero means no cap.
	Limit int

	issued   int
	pending  int             // backpack slot chosen before opening the inventory
	skipped  map[string]bool // items that could not be picked up
	holdFire uint64          // no ranged attempts before this turn
	log      *logrus.Entry
}

func NewBot(limit int) *Bot {
	return &Bot{
		Limit:   limit,
		pending: -1,
		skipped: make(map[string]bool),
		log:     logger.Log.WithField("component", "bot"),
	}
}

// NextCommand implements engine.Input.
func (b *Bot) NextCommand(ctx context.Context, snap *api.Snapshot) (domain.Command, error) {
	if err := ctx.Err(); err != nil {
		return domain.Command{}, err
	}
	if b.Limit > 0 && b.issued >= b.Limit {
		return domain.Command{}, engine.ErrEndOfInput
	}
	b.issued++

	switch snap.State {
	case engine.StateMainMenu.String():
		return domain.Simple(domain.CmdCancel), nil
	case engine.StateShowDropItem.String():
		return domain.Simple(domain.CmdCancel), nil
	case engine.StateShowInventory.String():
		return b.chooseSlot(snap), nil
	case engine.StateShowTargeting.String():
		return b.chooseTarget(snap), nil
	}

	me, ok := findSelf(snap)
	if !ok {
		return domain.Simple(domain.CmdWait), nil
	}
	if me.Stats != nil && me.Stats.IsDead {
		b.log.WithField("turn", snap.Turn).Info("Player died, bot stops")
		return domain.Command{}, engine.ErrEndOfInput
	}
	return b.decide(snap, me), nil
}

func (b *Bot) chooseSlot(snap *api.Snapshot) domain.Command {
	slot := b.pending
	b.pending = -1
	if slot < 0 || slot >= len(snap.Inventory) {
		return domain.Simple(domain.CmdCancel)
	}
	return domain.SelectItem(slot)
}

func (b *Bot) chooseTarget(snap *api.Snapshot) domain.Command {
	valid := make(map[api.PositionView]bool, len(snap.Targets))
	for _, t := range snap.Targets {
		valid[t] = true
	}
	for _, e := range monsters(snap) {
		if valid[e.Pos] {
			return domain.SelectTarget(domain.Position{X: e.Pos.X, Y: e.Pos.Y})
		}
	}
	b.holdFire = snap.Turn + 4
	return domain.Simple(domain.CmdCancel)
}

func (b *Bot) decide(snap *api.Snapshot, me api.EntityView) domain.Command {
	here := toPosition(me.Pos)
	local := buildLocalMap(snap)
	foes := monsters(snap)
	sortByDistance(foes, here)

	if me.Stats != nil && me.Stats.HP*2 < me.Stats.MaxHP {
		if slot := findItem(snap.Inventory, func(it api.ItemView) bool { return it.Healing > 0 }); slot >= 0 {
			b.pending = slot
			return domain.Simple(domain.CmdOpenInventory)
		}
	}

	if len(foes) > 0 {
		target := toPosition(foes[0].Pos)
		if here.IsAdjacent(target) {
			return domain.Move(sign(target.X-here.X), sign(target.Y-here.Y))
		}
		if snap.Turn >= b.holdFire {
			dist := here.DistanceTo(target)
			slot := findItem(snap.Inventory, func(it api.ItemView) bool {
				return it.Range > 0 && (it.Damage > 0 || it.Confusion > 0) && dist <= float64(it.Range)
			})
			if slot >= 0 {
				b.pending = slot
				return domain.Simple(domain.CmdOpenInventory)
			}
		}
		if cmd, ok := stepToward(local, here, target); ok {
			return cmd
		}
	}

	items := b.visibleItems(snap)
	sortByDistance(items, here)
	for _, it := range items {
		if toPosition(it.Pos) == here {
			// A full backpack leaves the item on the floor; do not loop on it.
			b.skipped[it.ID] = true
			return domain.Simple(domain.CmdPickup)
		}
		if cmd, ok := stepToward(local, here, toPosition(it.Pos)); ok {
			return cmd
		}
	}

	if cmd, ok := explore(local, snap, here); ok {
		return cmd
	}
	return domain.Simple(domain.CmdWait)
}

func (b *Bot) visibleItems(snap *api.Snapshot) []api.EntityView {
	var out []api.EntityView
	for _, e := range snap.Entities {
		if e.Type == enums.EntityTypeItem.String() && !b.skipped[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

// buildLocalMap rebuilds the part of the dungeon the snapshot reveals. Tiles
// never seen stay wall, so paths only run through known ground.
func buildLocalMap(snap *api.Snapshot) *domain.Map {
	m := domain.NewMap(snap.Grid.Width, snap.Grid.Height)
	for _, tv := range snap.Map {
		if !tv.IsWall && m.InBounds(tv.X, tv.Y) {
			m.SetTile(tv.X, tv.Y, domain.TileFloor)
			m.Revealed[m.Index(tv.X, tv.Y)] = true
		}
	}
	m.PopulateBlocked()
	return m
}

func stepToward(m *domain.Map, from, to domain.Position) (domain.Command, bool) {
	if !m.InBounds(to.X, to.Y) {
		return domain.Command{}, false
	}
	path := systems.AStar(m, m.IndexOf(from), m.IndexOf(to))
	if !path.Success || len(path.Steps) < 2 {
		return domain.Command{}, false
	}
	next := m.PositionOf(path.Steps[1])
	return domain.Move(next.X-from.X, next.Y-from.Y), true
}

// explore heads for the nearest known floor tile that borders unknown
// ground.
func explore(m *domain.Map, snap *api.Snapshot, here domain.Position) (domain.Command, bool) {
	known := make([]bool, m.Len())
	for _, tv := range snap.Map {
		if m.InBounds(tv.X, tv.Y) {
			known[m.Index(tv.X, tv.Y)] = true
		}
	}

	var frontier []domain.Position
	for idx := 0; idx < m.Len(); idx++ {
		if m.Tiles[idx] != domain.TileFloor {
			continue
		}
		x, y := m.XY(idx)
	scan:
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if m.InBounds(x+dx, y+dy) && !known[m.Index(x+dx, y+dy)] {
					frontier = append(frontier, domain.Position{X: x, Y: y})
					break scan
				}
			}
		}
	}
	sort.SliceStable(frontier, func(i, j int) bool {
		return here.DistanceSquaredTo(frontier[i]) < here.DistanceSquaredTo(frontier[j])
	})

	for i, p := range frontier {
		if i >= frontierProbes {
			break
		}
		if cmd, ok := stepToward(m, here, p); ok {
			return cmd, true
		}
	}
	return domain.Command{}, false
}

func findSelf(snap *api.Snapshot) (api.EntityView, bool) {
	for _, e := range snap.Entities {
		if e.ID == snap.PlayerID {
			return e, true
		}
	}
	return api.EntityView{}, false
}

func monsters(snap *api.Snapshot) []api.EntityView {
	var out []api.EntityView
	for _, e := range snap.Entities {
		if e.Type == enums.EntityTypeMonster.String() && (e.Stats == nil || !e.Stats.IsDead) {
			out = append(out, e)
		}
	}
	return out
}

func findItem(items []api.ItemView, match func(api.ItemView) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

func sortByDistance(es []api.EntityView, from domain.Position) {
	sort.SliceStable(es, func(i, j int) bool {
		return from.DistanceSquaredTo(toPosition(es[i].Pos)) < from.DistanceSquaredTo(toPosition(es[j].Pos))
	})
}

func toPosition(p api.PositionView) domain.Position {
	return domain.Position{X: p.X, Y: p.Y}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
