package domain

import (
	"fmt"
	"math"

	"dungeon-kernel/internal/core/types"
)

type TileType uint8

const (
	TileWall TileType = iota
	TileFloor
)

func (t TileType) String() string {
	if t == TileFloor {
		return "FLOOR"
	}
	return "WALL"
}

// Env is a cosmetic variant per tile. Only renderers read it.
type Env uint8

const (
	CostOrthogonal = 1.0
	CostDiagonal   = 1.45
)

// Exit is a traversable neighbour of a tile and the cost of stepping there.
type Exit struct {
	Idx  int
	Cost float64
}

// Map is the dungeon grid. Every per-tile slice is indexed by y*Width + x.
// Blocked and TileContent are rebuilt from scratch by the indexing pass each
// turn and are not meaningful before it runs.
type Map struct {
	Width  int
	Height int

	Tiles    []TileType
	Env      []Env
	Rooms    []Rect
	Revealed []bool
	Visible  []bool
	Blocked  []bool

	TileContent [][]types.EntityID
}

// NewMap returns a width x height grid of solid wall.
func NewMap(width, height int) *Map {
	if width < 3 || height < 3 {
		panic(fmt.Errorf("%w: map %dx%d is too small", ErrContractViolation, width, height))
	}
	n := width * height
	return &Map{
		Width:       width,
		Height:      height,
		Tiles:       make([]TileType, n),
		Env:         make([]Env, n),
		Revealed:    make([]bool, n),
		Visible:     make([]bool, n),
		Blocked:     make([]bool, n),
		TileContent: make([][]types.EntityID, n),
	}
}

func (m *Map) Len() int {
	return m.Width * m.Height
}

func (m *Map) Index(x, y int) int {
	return y*m.Width + x
}

func (m *Map) IndexOf(p Position) int {
	return m.Index(p.X, p.Y)
}

func (m *Map) XY(idx int) (int, int) {
	return idx % m.Width, idx / m.Width
}

func (m *Map) PositionOf(idx int) Position {
	x, y := m.XY(idx)
	return Position{X: x, Y: y}
}

func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// TileAt treats everything outside the grid as wall.
func (m *Map) TileAt(x, y int) TileType {
	if !m.InBounds(x, y) {
		return TileWall
	}
	return m.Tiles[m.Index(x, y)]
}

func (m *Map) SetTile(x, y int, t TileType) {
	if m.InBounds(x, y) {
		m.Tiles[m.Index(x, y)] = t
	}
}

func (m *Map) IsBlocked(idx int) bool {
	if idx < 0 || idx >= len(m.Blocked) {
		return true
	}
	return m.Blocked[idx]
}

// IsOpaque is the vision predicate: walls block sight, floors do not.
// Blocking entities never hide what is behind them.
func (m *Map) IsOpaque(idx int) bool {
	if idx < 0 || idx >= len(m.Tiles) {
		return true
	}
	return m.Tiles[idx] == TileWall
}

func (m *Map) OccupantsAt(idx int) []types.EntityID {
	if idx < 0 || idx >= len(m.TileContent) {
		return nil
	}
	return m.TileContent[idx]
}

// PopulateBlocked resets Blocked to the wall layout.
func (m *Map) PopulateBlocked() {
	for i, t := range m.Tiles {
		m.Blocked[i] = t == TileWall
	}
}

// ClearContentIndex empties every occupant list, keeping the backing arrays.
func (m *Map) ClearContentIndex() {
	for i := range m.TileContent {
		m.TileContent[i] = m.TileContent[i][:0]
	}
}

// ResetVisible clears the current-view layer before the player's viewshed is
// written back into it.
func (m *Map) ResetVisible() {
	clear(m.Visible)
}

func (m *Map) isExitValid(x, y int) bool {
	if x < 1 || x > m.Width-2 || y < 1 || y > m.Height-2 {
		return false
	}
	return !m.Blocked[m.Index(x, y)]
}

var exitDirs = [8]struct {
	dx, dy int
	cost   float64
}{
	{-1, 0, CostOrthogonal},
	{1, 0, CostOrthogonal},
	{0, -1, CostOrthogonal},
	{0, 1, CostOrthogonal},
	{-1, -1, CostDiagonal},
	{1, -1, CostDiagonal},
	{-1, 1, CostDiagonal},
	{1, 1, CostDiagonal},
}

// Exits lists the neighbours of idx that can be stepped onto, orthogonals
// first. The outermost ring of the map is never an exit.
func (m *Map) Exits(idx int) []Exit {
	x, y := m.XY(idx)
	exits := make([]Exit, 0, 8)
	for _, d := range exitDirs {
		nx, ny := x+d.dx, y+d.dy
		if m.isExitValid(nx, ny) {
			exits = append(exits, Exit{Idx: m.Index(nx, ny), Cost: d.cost})
		}
	}
	return exits
}

// PathingDistance is the straight-line heuristic between two tiles.
func (m *Map) PathingDistance(a, b int) float64 {
	ax, ay := m.XY(a)
	bx, by := m.XY(b)
	return math.Hypot(float64(ax-bx), float64(ay-by))
}

// FloorCount is used by generator checks and the debug route.
func (m *Map) FloorCount() int {
	n := 0
	for _, t := range m.Tiles {
		if t == TileFloor {
			n++
		}
	}
	return n
}
