package api

import (
	"encoding/json"
)

// --- SERVER -> CLIENT ---

// Snapshot is a read-only picture of the run as the player sees it. It is
// sent to every connected client whenever the turn machine waits for input,
// and it is what every renderer draws from.
type Snapshot struct {
	// Type is always "UPDATE" for snapshots.
	Type string `json:"type"`

	// Turn counts completed pipeline passes.
	Turn uint64 `json:"turn"`

	// State is the turn machine state, e.g. AWAITING_INPUT or SHOW_TARGETING.
	State string `json:"state"`

	// MenuSelection is set only in MAIN_MENU.
	MenuSelection string `json:"menuSelection,omitempty"`

	PlayerID string `json:"playerId,omitempty"`

	Grid *GridMeta `json:"grid,omitempty"`

	// Map holds revealed tiles only. IsVisible marks the ones in the
	// player's current field of view.
	Map []TileView `json:"map,omitempty"`

	// Entities holds everything positioned on a visible tile, plus the player.
	Entities []EntityView `json:"entities,omitempty"`

	// Inventory is the player's backpack in selection order: slot N of
	// SELECT_ITEM refers to Inventory[N].
	Inventory []ItemView `json:"inventory,omitempty"`

	// Targets lists the tiles a ranged item may be aimed at. Set only in
	// SHOW_TARGETING.
	Targets []PositionView `json:"targets,omitempty"`

	// Logs is the game log, newest first, trimmed to the snapshot's log limit.
	Logs []string `json:"logs,omitempty"`
}

// GridMeta carries the full map size so a client can size its grid before
// any tile arrives.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

type PositionView struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type TileView struct {
	X int `json:"x"`
	Y int `json:"y"`

	Symbol string `json:"symbol"`
	Color  string `json:"color"`

	IsWall    bool `json:"isWall"`
	IsVisible bool `json:"isVisible"`
	// Env is the decoration variant, 0..3, for renderers that shade floors.
	Env int `json:"env"`
}

type EntityView struct {
	ID   string `json:"id"`
	Type string `json:"type"` // PLAYER, MONSTER, ITEM
	Name string `json:"name"`

	Pos PositionView `json:"pos"`

	Render RenderView `json:"render"`

	// Stats is omitted for entities that cannot fight.
	Stats *StatsView `json:"stats,omitempty"`

	// Confused is the number of turns of confusion left.
	Confused int `json:"confused,omitempty"`
}

// RenderView is how to draw an entity. Lower orders draw on top.
type RenderView struct {
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
	Order  int    `json:"order"`
}

type StatsView struct {
	HP      int  `json:"hp"`
	MaxHP   int  `json:"maxHp"`
	Defense int  `json:"defense"`
	Power   int  `json:"power"`
	IsDead  bool `json:"isDead"`
}

// ItemView describes an item in the backpack by its effect tags.
type ItemView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Color  string `json:"color"`

	Consumable bool `json:"consumable,omitempty"`
	Range      int  `json:"range,omitempty"`
	Damage     int  `json:"damage,omitempty"`
	Healing    int  `json:"healing,omitempty"`
	Radius     int  `json:"radius,omitempty"`
	Confusion  int  `json:"confusion,omitempty"`
}

// ErrorResponse is sent when a client message cannot be accepted.
type ErrorResponse struct {
	Type    string `json:"type"` // always "ERROR"
	Message string `json:"message"`
}

// --- CLIENT -> SERVER ---

// ClientCommand is the envelope of every client message.
type ClientCommand struct {
	// Action is one of MOVE, WAIT, PICKUP, INVENTORY, DROP, SELECT_ITEM,
	// TARGET, CANCEL, MENU, MENU_UP, MENU_DOWN, MENU_CONFIRM.
	Action string `json:"action"`

	// Payload depends on Action; see the payload types below.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// DirectionPayload is used by MOVE.
type DirectionPayload struct {
	Dx int `json:"dx"` // -1, 0, 1
	Dy int `json:"dy"` // -1, 0, 1
}

// SlotPayload is used by SELECT_ITEM.
type SlotPayload struct {
	Slot int `json:"slot"`
}

// PositionPayload is used by TARGET.
type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}
