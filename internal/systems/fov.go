package systems

import (
	"slices"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Octant transforms for recursive shadowcasting.
var multipliers = [4][8]int{
	{1, 0, 0, -1, -1, 0, 0, 1},
	{0, 1, -1, 0, 0, -1, 1, 0},
	{0, 1, 1, 0, 0, -1, -1, 0},
	{1, 0, 0, 1, -1, 0, 0, -1},
}

// ComputeFOV returns every tile visible from origin within radius, sorted by
// map index. Walls are opaque but are themselves visible when lit. The result
// depends only on the map and the arguments, so recomputing is idempotent.
func ComputeFOV(m *domain.Map, origin domain.Position, radius int) []domain.Position {
	fovLogger := logger.Log.WithFields(logrus.Fields{
		"component":    "fov_system",
		"observer_pos": origin,
		"radius":       radius,
	})

	if radius < 0 || !m.InBounds(origin.X, origin.Y) {
		fovLogger.Debug("FOV skipped: blind observer or off-map origin.")
		return nil
	}

	seen := make(map[int]struct{})
	seen[m.IndexOf(origin)] = struct{}{}

	for i := 0; i < 8; i++ {
		castLight(m, origin.X, origin.Y, 1, 1.0, 0.0, radius,
			multipliers[0][i], multipliers[1][i],
			multipliers[2][i], multipliers[3][i], seen)
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	out := make([]domain.Position, len(indices))
	for i, idx := range indices {
		out[i] = m.PositionOf(idx)
	}

	fovLogger.WithField("visible_tiles", len(out)).Debug("FOV calculation complete.")
	return out
}

func castLight(m *domain.Map, cx, cy, row int, start, end float64, radius, xx, xy, yx, yy int, seen map[int]struct{}) {
	if start < end {
		return
	}

	radiusSq := radius * radius

	for j := row; j <= radius; j++ {
		dx, dy := -j-1, -j
		blocked := false
		newStart := start

		for {
			dx++
			if dx > 0 {
				break
			}

			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			x := cx + dx*xx + dy*xy
			y := cy + dx*yx + dy*yy

			if m.InBounds(x, y) && dx*dx+dy*dy <= radiusSq {
				seen[m.Index(x, y)] = struct{}{}
			}

			if blocked {
				if isOpaqueAt(m, x, y) {
					newStart = rSlope
					continue
				}
				blocked = false
				start = newStart
			} else if isOpaqueAt(m, x, y) && j < radius {
				blocked = true
				castLight(m, cx, cy, j+1, start, lSlope, radius, xx, xy, yx, yy, seen)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}

// isOpaqueAt treats the outside of the map as solid.
func isOpaqueAt(m *domain.Map, x, y int) bool {
	if !m.InBounds(x, y) {
		return true
	}
	return m.IsOpaque(m.Index(x, y))
}
