package systems

import (
	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HasLineOfSight walks a Bresenham line from p1 to p2 and fails on the first
// opaque tile strictly between them. Projectiles travel along this line, so
// ranged targeting uses it on top of the viewshed.
func HasLineOfSight(m *domain.Map, p1, p2 domain.Position) bool {
	losLogger := logger.Log.WithFields(logrus.Fields{
		"component": "physics_system",
		"start_pos": p1,
		"end_pos":   p2,
	})

	if p1 == p2 {
		return true
	}

	x0, y0 := p1.X, p1.Y
	x1, y1 := p2.X, p2.Y

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx - dy

	for {
		if (x0 != p1.X || y0 != p1.Y) && (x0 != x1 || y0 != y1) {
			if isOpaqueAt(m, x0, y0) {
				losLogger.WithField("blocking_point", domain.Position{X: x0, Y: y0}).
					Debug("Line of sight blocked.")
				return false
			}
		}

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
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
