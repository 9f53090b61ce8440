// Package term is a terminal front-end. It draws snapshots with tcell and
// turns key presses into commands.
package term

import (
	"context"
	"fmt"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine"
	"dungeon-kernel/pkg/api"

	"github.com/gdamore/tcell/v2"
)

// hudRows is the space below the map for the status line and the log.
const hudRows = 1 + engine.SnapshotLogLimit

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHeader = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleSelect = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorAqua)
	styleTarget = tcell.StyleDefault.Background(tcell.ColorDarkBlue)
)

// UI is an engine.Input backed by a tcell screen. Reading and drawing happen
// on the goroutine that runs the game; a helper goroutine only forwards
// events.
type UI struct {
	screen tcell.Screen
	events chan tcell.Event

	// Targeting cursor. Reset whenever targeting starts.
	cursor    domain.Position
	targeting bool
}

// New takes ownership of an initialised screen.
func New(screen tcell.Screen) *UI {
	u := &UI{
		screen: screen,
		events: make(chan tcell.Event, 16),
	}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(u.events)
				return
			}
			u.events <- ev
		}
	}()
	return u
}

// NextCommand draws snap and waits for a key that means something in its
// state. q or Ctrl-C ends input.
func (u *UI) NextCommand(ctx context.Context, snap *api.Snapshot) (domain.Command, error) {
	u.syncCursor(snap)
	u.Draw(snap)

	for {
		select {
		case <-ctx.Done():
			return domain.Command{}, ctx.Err()
		case ev, ok := <-u.events:
			if !ok {
				return domain.Command{}, engine.ErrEndOfInput
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				u.screen.Sync()
				u.Draw(snap)
			case *tcell.EventKey:
				cmd, done, handled := u.HandleKey(snap, ev)
				if done {
					return domain.Command{}, engine.ErrEndOfInput
				}
				if handled {
					return cmd, nil
				}
				u.Draw(snap)
			}
		}
	}
}

func (u *UI) syncCursor(snap *api.Snapshot) {
	inTargeting := snap.State == engine.StateShowTargeting.String()
	if inTargeting && !u.targeting {
		u.cursor = playerPos(snap)
		if len(snap.Targets) > 0 {
			u.cursor = domain.Position{X: snap.Targets[0].X, Y: snap.Targets[0].Y}
		}
	}
	u.targeting = inTargeting
}

var moveKeys = map[tcell.Key][2]int{
	tcell.KeyUp:    {0, -1},
	tcell.KeyDown:  {0, 1},
	tcell.KeyLeft:  {-1, 0},
	tcell.KeyRight: {1, 0},
}

var moveRunes = map[rune][2]int{
	'k': {0, -1}, 'j': {0, 1}, 'h': {-1, 0}, 'l': {1, 0},
	'y': {-1, -1}, 'u': {1, -1}, 'b': {-1, 1}, 'n': {1, 1},
	'8': {0, -1}, '2': {0, 1}, '4': {-1, 0}, '6': {1, 0},
	'7': {-1, -1}, '9': {1, -1}, '1': {-1, 1}, '3': {1, 1},
}

func direction(ev *tcell.EventKey) ([2]int, bool) {
	if ev.Key() == tcell.KeyRune {
		d, ok := moveRunes[ev.Rune()]
		return d, ok
	}
	d, ok := moveKeys[ev.Key()]
	return d, ok
}

// HandleKey maps a key to a command for the snapshot's state. handled is
// false for keys that only move the cursor or mean nothing; done is true when
// the player asked to leave.
func (u *UI) HandleKey(snap *api.Snapshot, ev *tcell.EventKey) (cmd domain.Command, done, handled bool) {
	if ev.Key() == tcell.KeyCtrlC {
		return domain.Command{}, true, false
	}

	switch snap.State {
	case engine.StateMainMenu.String():
		switch {
		case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
			return domain.Simple(domain.CmdMenuUp), false, true
		case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
			return domain.Simple(domain.CmdMenuDown), false, true
		case ev.Key() == tcell.KeyEnter:
			return domain.Simple(domain.CmdMenuConfirm), false, true
		case ev.Key() == tcell.KeyEscape:
			return domain.Simple(domain.CmdCancel), false, true
		}

	case engine.StateShowInventory.String(), engine.StateShowDropItem.String():
		if ev.Key() == tcell.KeyEscape {
			return domain.Simple(domain.CmdCancel), false, true
		}
		if r := ev.Rune(); ev.Key() == tcell.KeyRune && r >= 'a' && r <= 'z' {
			return domain.SelectItem(int(r - 'a')), false, true
		}

	case engine.StateShowTargeting.String():
		switch ev.Key() {
		case tcell.KeyEscape:
			return domain.Simple(domain.CmdCancel), false, true
		case tcell.KeyEnter:
			return domain.SelectTarget(u.cursor), false, true
		}
		if d, ok := direction(ev); ok {
			u.cursor = u.cursor.Shift(d[0], d[1])
		}

	case engine.StateAwaitingInput.String():
		if d, ok := direction(ev); ok {
			return domain.Move(d[0], d[1]), false, true
		}
		if ev.Key() == tcell.KeyEscape {
			return domain.Simple(domain.CmdMenu), false, true
		}
		switch ev.Rune() {
		case 'q':
			return domain.Command{}, true, false
		case '.', ' ', '5':
			return domain.Simple(domain.CmdWait), false, true
		case 'g', ',':
			return domain.Simple(domain.CmdPickup), false, true
		case 'i':
			return domain.Simple(domain.CmdOpenInventory), false, true
		case 'd':
			return domain.Simple(domain.CmdOpenDrop), false, true
		}
	}
	return domain.Command{}, false, false
}

// Draw renders the map, the HUD and whichever overlay the state needs.
func (u *UI) Draw(snap *api.Snapshot) {
	s := u.screen
	s.Clear()

	sw, sh := s.Size()
	offX, offY := camera(snap, sw, sh-hudRows)

	put := func(x, y int, r rune, style tcell.Style) {
		sx, sy := x-offX, y-offY
		if sx >= 0 && sy >= 0 && sx < sw && sy < sh-hudRows {
			s.SetContent(sx, sy, r, nil, style)
		}
	}

	for _, tv := range snap.Map {
		put(tv.X, tv.Y, firstRune(tv.Symbol), tcell.StyleDefault.Foreground(tcell.GetColor(tv.Color)))
	}
	for _, t := range snap.Targets {
		put(t.X, t.Y, cellRune(s, t.X-offX, t.Y-offY), styleTarget)
	}
	for _, e := range snap.Entities {
		put(e.Pos.X, e.Pos.Y, firstRune(e.Render.Symbol), tcell.StyleDefault.Foreground(tcell.GetColor(e.Render.Color)))
	}
	if u.targeting {
		put(u.cursor.X, u.cursor.Y, 'X', styleSelect)
	}

	row := sh - hudRows
	putStr(s, 0, row, statusLine(snap), styleHeader)
	for i, line := range snap.Logs {
		style := styleDim
		if i == 0 {
			style = styleText
		}
		putStr(s, 0, row+1+i, line, style)
	}

	switch snap.State {
	case engine.StateShowInventory.String():
		drawItems(s, "Inventory (Esc to cancel)", snap.Inventory)
	case engine.StateShowDropItem.String():
		drawItems(s, "Drop which item? (Esc to cancel)", snap.Inventory)
	case engine.StateMainMenu.String():
		drawMenu(s, snap.MenuSelection)
	}

	s.Show()
}

func statusLine(snap *api.Snapshot) string {
	line := fmt.Sprintf("Turn %d  %s", snap.Turn, snap.State)
	for _, e := range snap.Entities {
		if e.ID == snap.PlayerID && e.Stats != nil {
			line = fmt.Sprintf("HP %d/%d  %s", e.Stats.HP, e.Stats.MaxHP, line)
		}
	}
	return line
}

func drawItems(s tcell.Screen, title string, items []api.ItemView) {
	putStr(s, 2, 1, title, styleHeader)
	if len(items) == 0 {
		putStr(s, 4, 3, "(empty)", styleDim)
		return
	}
	for i, it := range items {
		putStr(s, 4, 3+i, fmt.Sprintf("(%c) %s", 'a'+i, it.Name), styleText)
	}
}

func drawMenu(s tcell.Screen, selection string) {
	putStr(s, 2, 1, "Dungeon Kernel", styleHeader)
	for i, opt := range []struct{ key, label string }{
		{engine.MenuNewGame.String(), "New game"},
		{engine.MenuQuit.String(), "Quit"},
	} {
		style := styleText
		if opt.key == selection {
			style = styleSelect
		}
		putStr(s, 4, 3+i, opt.label, style)
	}
}

// camera keeps the player centred once the map outgrows the screen.
func camera(snap *api.Snapshot, w, h int) (int, int) {
	if snap.Grid == nil {
		return 0, 0
	}
	p := playerPos(snap)
	return clampOffset(p.X-w/2, snap.Grid.Width-w), clampOffset(p.Y-h/2, snap.Grid.Height-h)
}

func clampOffset(v, maxV int) int {
	return max(0, min(v, maxV))
}

func playerPos(snap *api.Snapshot) domain.Position {
	for _, e := range snap.Entities {
		if e.ID == snap.PlayerID {
			return domain.Position{X: e.Pos.X, Y: e.Pos.Y}
		}
	}
	return domain.Position{}
}

func putStr(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func cellRune(s tcell.Screen, x, y int) rune {
	r, _, _, _ := s.GetContent(x, y)
	return r
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}
