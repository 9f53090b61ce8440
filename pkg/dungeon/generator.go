package dungeon

import (
	"errors"
	"fmt"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"
	"dungeon-kernel/pkg/rng"

	"github.com/sirupsen/logrus"
)

var (
	// ErrTooFewRooms means the attempt budget ran out before MinRooms rooms
	// were placed. It is recoverable: retry with more rolls or a new seed.
	ErrTooFewRooms = errors.New("too few rooms placed")

	ErrInvalidConfig = errors.New("invalid generator config")
)

// Config holds the generation parameters. DefaultConfig gives the classic
// 80x50 layout.
type Config struct {
	Width    int
	Height   int
	MaxRooms int
	MinRooms int
	MinSize  int
	MaxSize  int

	MaxMonstersPerRoom int
	MaxItemsPerRoom    int
}

func DefaultConfig() Config {
	return Config{
		Width:              80,
		Height:             50,
		MaxRooms:           30,
		MinRooms:           2,
		MinSize:            6,
		MaxSize:            10,
		MaxMonstersPerRoom: 4,
		MaxItemsPerRoom:    1,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MinSize < 2 || c.MaxSize < c.MinSize:
		return fmt.Errorf("%w: room size %d..%d", ErrInvalidConfig, c.MinSize, c.MaxSize)
	case c.Width < c.MaxSize+3 || c.Height < c.MaxSize+3:
		return fmt.Errorf("%w: %dx%d cannot fit a %d room", ErrInvalidConfig, c.Width, c.Height, c.MaxSize)
	case c.MaxRooms < 1 || c.MinRooms < 1 || c.MinRooms > c.MaxRooms:
		return fmt.Errorf("%w: rooms %d..%d", ErrInvalidConfig, c.MinRooms, c.MaxRooms)
	case c.MaxMonstersPerRoom < 0 || c.MaxItemsPerRoom < 0:
		return fmt.Errorf("%w: negative spawn limits", ErrInvalidConfig)
	}
	return nil
}

// Generate carves a rooms-and-corridors dungeon. Each of MaxRooms attempts
// rolls a room; one that intersects an accepted room is discarded. Every
// accepted room after the first is joined to the previous one, so all rooms
// form a single connected region.
func Generate(r rng.RNG, cfg Config) (*domain.Map, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := domain.NewMap(cfg.Width, cfg.Height)

	for i := 0; i < cfg.MaxRooms; i++ {
		w := r.Range(cfg.MinSize, cfg.MaxSize)
		h := r.Range(cfg.MinSize, cfg.MaxSize)
		x := r.RollDice(1, cfg.Width-w-1) - 1
		y := r.RollDice(1, cfg.Height-h-1) - 1
		room := domain.NewRect(x, y, w, h)

		if overlapsAny(room, m.Rooms) {
			continue
		}

		applyRoom(m, room)
		if n := len(m.Rooms); n > 0 {
			prev := m.Rooms[n-1].Center()
			next := room.Center()
			applyHorizontalTunnel(m, prev.X, next.X, next.Y)
			applyVerticalTunnel(m, prev.Y, next.Y, prev.X)
		}
		m.Rooms = append(m.Rooms, room)
	}

	if len(m.Rooms) < cfg.MinRooms {
		return nil, fmt.Errorf("%w: %d of %d required after %d attempts",
			ErrTooFewRooms, len(m.Rooms), cfg.MinRooms, cfg.MaxRooms)
	}

	Decorate(m, int64(r.Range(0, 1<<30)))
	m.PopulateBlocked()
	return m, nil
}

// GenerateWithRetry calls Generate up to attempts times, continuing the same
// RNG stream so every retry sees fresh rolls.
func GenerateWithRetry(r rng.RNG, cfg Config, attempts int) (*domain.Map, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		m, err := Generate(r, cfg)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, ErrTooFewRooms) {
			return nil, err
		}
		lastErr = err
		logger.Log.WithFields(logrus.Fields{
			"component": "dungeon",
			"attempt":   i,
		}).WithError(err).Warn("Map generation retry")
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}

func overlapsAny(room domain.Rect, rooms []domain.Rect) bool {
	for _, other := range rooms {
		if room.Intersect(other) {
			return true
		}
	}
	return false
}

func applyRoom(m *domain.Map, room domain.Rect) {
	for y := room.Y1 + 1; y <= room.Y2; y++ {
		for x := room.X1 + 1; x <= room.X2; x++ {
			m.SetTile(x, y, domain.TileFloor)
		}
	}
}

func applyHorizontalTunnel(m *domain.Map, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		m.SetTile(x, y, domain.TileFloor)
	}
}

func applyVerticalTunnel(m *domain.Map, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		m.SetTile(x, y, domain.TileFloor)
	}
}
