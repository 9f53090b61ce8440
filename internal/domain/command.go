package domain

import "strings"

// CommandKind is what a player (or a front-end acting for one) asked for.
// The turn state machine decides whether it means anything in the current
// state; a command that does not apply is ignored.
type CommandKind uint8

const (
	CmdNone CommandKind = iota
	CmdMove
	CmdWait
	CmdPickup
	CmdOpenInventory
	CmdOpenDrop
	CmdSelectItem
	CmdSelectTarget
	CmdCancel
	CmdMenu
	CmdMenuUp
	CmdMenuDown
	CmdMenuConfirm
)

var commandStringToKind = map[string]CommandKind{
	"NONE":         CmdNone,
	"MOVE":         CmdMove,
	"WAIT":         CmdWait,
	"PICKUP":       CmdPickup,
	"INVENTORY":    CmdOpenInventory,
	"DROP":         CmdOpenDrop,
	"SELECT_ITEM":  CmdSelectItem,
	"TARGET":       CmdSelectTarget,
	"CANCEL":       CmdCancel,
	"MENU":         CmdMenu,
	"MENU_UP":      CmdMenuUp,
	"MENU_DOWN":    CmdMenuDown,
	"MENU_CONFIRM": CmdMenuConfirm,
}

var commandKindToString = map[CommandKind]string{
	CmdNone:          "NONE",
	CmdMove:          "MOVE",
	CmdWait:          "WAIT",
	CmdPickup:        "PICKUP",
	CmdOpenInventory: "INVENTORY",
	CmdOpenDrop:      "DROP",
	CmdSelectItem:    "SELECT_ITEM",
	CmdSelectTarget:  "TARGET",
	CmdCancel:        "CANCEL",
	CmdMenu:          "MENU",
	CmdMenuUp:        "MENU_UP",
	CmdMenuDown:      "MENU_DOWN",
	CmdMenuConfirm:   "MENU_CONFIRM",
}

// ParseCommandKind is case-insensitive; unknown names map to CmdNone.
func ParseCommandKind(s string) CommandKind {
	if k, ok := commandStringToKind[strings.ToUpper(s)]; ok {
		return k
	}
	return CmdNone
}

func (k CommandKind) String() string {
	if s, ok := commandKindToString[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Command carries a kind plus whichever argument it needs: a step for
// CmdMove, a backpack slot for CmdSelectItem, a tile for CmdSelectTarget.
type Command struct {
	Kind   CommandKind
	Dx     int
	Dy     int
	Slot   int
	Target Position
}

func Move(dx, dy int) Command {
	return Command{Kind: CmdMove, Dx: dx, Dy: dy}
}

func SelectItem(slot int) Command {
	return Command{Kind: CmdSelectItem, Slot: slot}
}

func SelectTarget(p Position) Command {
	return Command{Kind: CmdSelectTarget, Target: p}
}

func Simple(kind CommandKind) Command {
	return Command{Kind: kind}
}
