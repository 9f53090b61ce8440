package engine

import (
	"errors"
	"fmt"
	"time"

	"dungeon-kernel/internal/core/types"
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/systems"
	"dungeon-kernel/pkg/dungeon"
	"dungeon-kernel/pkg/logger"
	"dungeon-kernel/pkg/rng"

	"github.com/sirupsen/logrus"
)

// ErrQuit is returned by Step when the player picks Quit from the main menu.
var ErrQuit = errors.New("quit requested")

// Game owns one run: the world, the map, the log and the turn machine. It is
// driven from a single goroutine.
type Game struct {
	Config Config
	Ctx    *systems.Context
	State  RunState

	// Turn counts pipeline passes since the process started.
	Turn uint64

	rng    *rng.Source
	steps  uint32
	replay *domain.ReplaySession
	log    *logrus.Entry
}

// NewGame seeds the RNG from cfg and builds the first world. The returned game
// is in StatePreRun.
func NewGame(cfg Config) (*Game, error) {
	g := &Game{
		Config: cfg,
		rng:    rng.New(cfg.Seed),
		replay: &domain.ReplaySession{
			Seed:      cfg.Seed,
			Timestamp: time.Now().Unix(),
			Width:     cfg.Dungeon.Width,
			Height:    cfg.Dungeon.Height,
		},
		log: logger.Log.WithFields(logrus.Fields{
			"component": "engine",
			"seed":      cfg.Seed,
		}),
	}
	if err := g.newWorld(); err != nil {
		return nil, err
	}
	return g, nil
}

// newWorld generates a fresh dungeon, places the player in the first room and
// populates the rest. The RNG stream carries on from wherever it was, so a
// second game in the same process gets a different layout.
func (g *Game) newWorld() error {
	attempts := max(1, g.Config.GenAttempts)
	m, err := dungeon.GenerateWithRetry(g.rng, g.Config.Dungeon, attempts)
	if err != nil {
		return fmt.Errorf("new world: %w", err)
	}

	w := domain.NewWorld(g.Config.ShardID)
	player := dungeon.CreatePlayer(w, m.Rooms[0].Center())
	dungeon.PopulateMap(w, m, g.rng, g.Config.Dungeon)

	g.Ctx = &systems.Context{
		World:  w,
		Map:    m,
		Log:    domain.NewGameLog("Welcome!"),
		Player: player,
		RNG:    g.rng,
	}
	// Monsters must block their tiles before the first AI pass moves anyone.
	systems.RunMapIndex(g.Ctx)
	g.State = stateOf(StatePreRun)

	g.log.WithFields(logrus.Fields{
		"rooms":    len(m.Rooms),
		"entities": w.Entities.Len(),
		"player":   player,
	}).Info("World generated")
	return nil
}

// runSystems is one pipeline pass. Intents are produced and consumed within
// the pass, so none survive it.
func (g *Game) runSystems() {
	ctx := g.Ctx
	systems.RunVisibility(ctx)
	systems.RunMonsterAI(ctx)
	systems.RunMapIndex(ctx)
	systems.RunMelee(ctx)
	systems.RunDamage(ctx)
	systems.RunItemCollection(ctx)
	systems.RunItemUse(ctx)
	systems.RunItemDrop(ctx)
}

// AdvanceTurn runs one pipeline pass followed by the death sweep. It returns
// the entities the sweep removed. Occupancy is rebuilt when anything died so
// corpses stop blocking before the next input.
func (g *Game) AdvanceTurn() []types.EntityID {
	g.runSystems()
	removed := systems.DeathSweep(g.Ctx)
	if len(removed) > 0 {
		systems.RunMapIndex(g.Ctx)
	}
	g.Turn++
	return removed
}

// Step advances the turn machine by one state. States that need no input
// ignore cmd. A command that means nothing in the current state leaves the
// state unchanged.
func (g *Game) Step(cmd domain.Command) (RunState, error) {
	from := g.State
	if from.NeedsInput() {
		g.record(cmd)
	}
	g.steps++

	next, err := g.transition(cmd)
	if err != nil {
		return g.State, err
	}
	g.State = next

	if next != from {
		g.log.WithFields(logrus.Fields{
			"from":    from.String(),
			"to":      next.String(),
			"command": cmd.Kind.String(),
			"turn":    g.Turn,
		}).Debug("State change")
	}
	return g.State, nil
}

func (g *Game) transition(cmd domain.Command) (RunState, error) {
	ctx := g.Ctx
	switch g.State.Kind {
	case StatePreRun:
		g.AdvanceTurn()
		return stateOf(StateAwaitingInput), nil

	case StateAwaitingInput:
		return g.playerInput(cmd), nil

	case StatePlayerTurn:
		g.AdvanceTurn()
		return stateOf(StateMonsterTurn), nil

	case StateMonsterTurn:
		g.AdvanceTurn()
		return stateOf(StateAwaitingInput), nil

	case StateShowInventory:
		if cmd.Kind == domain.CmdCancel {
			return stateOf(StateAwaitingInput), nil
		}
		item, ok := g.selectedItem(cmd)
		if !ok {
			return g.State, nil
		}
		if r, ranged := ctx.World.Ranged.Get(item); ranged {
			return RunState{Kind: StateShowTargeting, Range: r.Range, Item: item}, nil
		}
		systems.RequestUse(ctx, item, nil)
		return stateOf(StatePlayerTurn), nil

	case StateShowDropItem:
		if cmd.Kind == domain.CmdCancel {
			return stateOf(StateAwaitingInput), nil
		}
		item, ok := g.selectedItem(cmd)
		if !ok {
			return g.State, nil
		}
		systems.RequestDrop(ctx, item)
		return stateOf(StatePlayerTurn), nil

	case StateShowTargeting:
		switch cmd.Kind {
		case domain.CmdCancel:
			return stateOf(StateAwaitingInput), nil
		case domain.CmdSelectTarget:
			if !systems.IsValidTarget(ctx, g.State.Range, cmd.Target) {
				return g.State, nil
			}
			target := cmd.Target
			systems.RequestUse(ctx, g.State.Item, &target)
			return stateOf(StatePlayerTurn), nil
		}
		return g.State, nil

	case StateMainMenu:
		return g.mainMenu(cmd)
	}
	return g.State, nil
}

// playerInput maps a command to an action. Moving, waiting and picking up
// spend the player's turn; opening a menu does not.
func (g *Game) playerInput(cmd domain.Command) RunState {
	ctx := g.Ctx
	switch cmd.Kind {
	case domain.CmdMove:
		systems.TryMovePlayer(ctx, cmd.Dx, cmd.Dy)
		return stateOf(StatePlayerTurn)
	case domain.CmdWait:
		return stateOf(StatePlayerTurn)
	case domain.CmdPickup:
		systems.TryPickup(ctx)
		return stateOf(StatePlayerTurn)
	case domain.CmdOpenInventory:
		return stateOf(StateShowInventory)
	case domain.CmdOpenDrop:
		return stateOf(StateShowDropItem)
	case domain.CmdMenu:
		return RunState{Kind: StateMainMenu, Selection: MenuNewGame}
	}
	return g.State
}

func (g *Game) mainMenu(cmd domain.Command) (RunState, error) {
	sel := g.State.Selection
	switch cmd.Kind {
	case domain.CmdMenuUp, domain.CmdMenuDown:
		if sel == MenuNewGame {
			sel = MenuQuit
		} else {
			sel = MenuNewGame
		}
		return RunState{Kind: StateMainMenu, Selection: sel}, nil
	case domain.CmdCancel:
		return stateOf(StateAwaitingInput), nil
	case domain.CmdMenuConfirm:
		if sel == MenuQuit {
			g.log.Info("Quit selected")
			return g.State, ErrQuit
		}
		if err := g.newWorld(); err != nil {
			return g.State, err
		}
		return stateOf(StatePreRun), nil
	}
	return g.State, nil
}

// selectedItem resolves a SELECT_ITEM slot against the player's backpack.
func (g *Game) selectedItem(cmd domain.Command) (types.EntityID, bool) {
	if cmd.Kind != domain.CmdSelectItem {
		return types.NilEntityID, false
	}
	items := g.Ctx.World.Backpack(g.Ctx.Player)
	if cmd.Slot < 0 || cmd.Slot >= len(items) {
		return types.NilEntityID, false
	}
	return items[cmd.Slot], true
}

func (g *Game) record(cmd domain.Command) {
	g.replay.Commands = append(g.replay.Commands, domain.ReplayCommand{Step: g.steps, Command: cmd})
}

// Replay returns the commands consumed so far together with the seed that
// reproduces them.
func (g *Game) Replay() *domain.ReplaySession {
	return g.replay
}

// PlayerDead reports whether the player has run out of HP. The player is
// never removed by the death sweep, so this is the only signal.
func (g *Game) PlayerDead() bool {
	s, ok := g.Ctx.World.Stats.Get(g.Ctx.Player)
	return ok && s.IsDead()
}
