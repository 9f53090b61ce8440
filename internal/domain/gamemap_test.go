package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMap(w, h int) *Map {
	m := NewMap(w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			m.SetTile(x, y, TileFloor)
		}
	}
	m.PopulateBlocked()
	return m
}

func TestMap_IndexRoundTrip(t *testing.T) {
	m := NewMap(80, 50)
	for _, p := range []Position{{0, 0}, {79, 0}, {0, 49}, {79, 49}, {13, 27}} {
		idx := m.IndexOf(p)
		assert.Equal(t, p.Y*80+p.X, idx)
		assert.Equal(t, p, m.PositionOf(idx))
	}
}

func TestMap_TileAtOutOfBoundsIsWall(t *testing.T) {
	m := openMap(10, 10)
	assert.Equal(t, TileFloor, m.TileAt(5, 5))
	assert.Equal(t, TileWall, m.TileAt(-1, 5))
	assert.Equal(t, TileWall, m.TileAt(10, 5))
	assert.True(t, m.IsOpaque(m.Index(0, 0)))
	assert.False(t, m.IsOpaque(m.Index(5, 5)))
}

func TestMap_Exits(t *testing.T) {
	m := openMap(10, 10)

	t.Run("open tile has 8 exits", func(t *testing.T) {
		exits := m.Exits(m.Index(5, 5))
		require.Len(t, exits, 8)
		var orth, diag int
		for _, e := range exits {
			switch e.Cost {
			case CostOrthogonal:
				orth++
			case CostDiagonal:
				diag++
			}
		}
		assert.Equal(t, 4, orth)
		assert.Equal(t, 4, diag)
	})

	t.Run("border ring is never an exit", func(t *testing.T) {
		exits := m.Exits(m.Index(1, 1))
		for _, e := range exits {
			x, y := m.XY(e.Idx)
			assert.True(t, x >= 1 && y >= 1, "exit %d,%d touches the border", x, y)
		}
		assert.Len(t, exits, 3)
	})

	t.Run("blocked tiles are skipped", func(t *testing.T) {
		m.Blocked[m.Index(6, 5)] = true
		defer func() { m.Blocked[m.Index(6, 5)] = false }()
		for _, e := range m.Exits(m.Index(5, 5)) {
			assert.NotEqual(t, m.Index(6, 5), e.Idx)
		}
	})
}

func TestMap_PathingDistance(t *testing.T) {
	m := NewMap(20, 20)
	assert.InDelta(t, 5.0, m.PathingDistance(m.Index(0, 0), m.Index(3, 4)), 1e-9)
	assert.Zero(t, m.PathingDistance(7, 7))
}

func TestMap_PopulateBlockedAndClear(t *testing.T) {
	m := openMap(5, 5)
	m.Blocked[m.Index(2, 2)] = true
	m.TileContent[3] = append(m.TileContent[3], 99)

	m.PopulateBlocked()
	m.ClearContentIndex()

	assert.False(t, m.IsBlocked(m.Index(2, 2)))
	assert.True(t, m.IsBlocked(m.Index(0, 0)))
	assert.True(t, m.IsBlocked(-1))
	assert.Empty(t, m.OccupantsAt(3))
}

func TestRect(t *testing.T) {
	a := NewRect(0, 0, 5, 5)
	assert.True(t, a.Intersect(NewRect(5, 5, 3, 3)), "touching edges count as overlap")
	assert.False(t, a.Intersect(NewRect(6, 0, 3, 3)))
	assert.Equal(t, Position{X: 2, Y: 2}, a.Center())
	assert.True(t, a.Contains(Position{X: 1, Y: 1}))
	assert.False(t, a.Contains(Position{X: 0, Y: 1}), "the top-left edge stays wall")
}
