package engine

import (
	"fmt"

	"dungeon-kernel/internal/core/types"
)

type RunStateKind uint8

const (
	StatePreRun RunStateKind = iota
	StateAwaitingInput
	StatePlayerTurn
	StateMonsterTurn
	StateShowInventory
	StateShowDropItem
	StateShowTargeting
	StateMainMenu
)

var runStateNames = map[RunStateKind]string{
	StatePreRun:        "PRE_RUN",
	StateAwaitingInput: "AWAITING_INPUT",
	StatePlayerTurn:    "PLAYER_TURN",
	StateMonsterTurn:   "MONSTER_TURN",
	StateShowInventory: "SHOW_INVENTORY",
	StateShowDropItem:  "SHOW_DROP_ITEM",
	StateShowTargeting: "SHOW_TARGETING",
	StateMainMenu:      "MAIN_MENU",
}

func (k RunStateKind) String() string {
	if s, ok := runStateNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

type MenuSelection uint8

const (
	MenuNewGame MenuSelection = iota
	MenuQuit
)

func (m MenuSelection) String() string {
	if m == MenuQuit {
		return "QUIT"
	}
	return "NEW_GAME"
}

// RunState is the current state of the turn machine. Range and Item are set
// only in StateShowTargeting, Selection only in StateMainMenu.
type RunState struct {
	Kind      RunStateKind
	Range     int
	Item      types.EntityID
	Selection MenuSelection
}

// NeedsInput reports whether Step in this state consumes a command.
// PreRun, PlayerTurn and MonsterTurn advance on their own.
func (s RunState) NeedsInput() bool {
	switch s.Kind {
	case StatePreRun, StatePlayerTurn, StateMonsterTurn:
		return false
	}
	return true
}

func (s RunState) String() string {
	switch s.Kind {
	case StateShowTargeting:
		return fmt.Sprintf("%s{range=%d item=%s}", s.Kind, s.Range, s.Item)
	case StateMainMenu:
		return fmt.Sprintf("%s{%s}", s.Kind, s.Selection)
	}
	return s.Kind.String()
}

func stateOf(kind RunStateKind) RunState {
	return RunState{Kind: kind}
}
