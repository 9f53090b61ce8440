package engine

import (
	"time"

	"dungeon-kernel/pkg/dungeon"
)

// Config holds the parameters of one run.
type Config struct {
	// Seed drives the dungeon layout and every roll of the run. Replaying the
	// same seed with the same commands reproduces the run exactly.
	Seed    int64
	ShardID uint8

	Dungeon dungeon.Config
	// GenAttempts bounds GenerateWithRetry when the layout comes up short.
	GenAttempts int

	RecordPath string
	ReplayPath string
}

// NewConfig returns the default configuration with a time-based seed.
func NewConfig() Config {
	return Config{
		Seed:        time.Now().UnixNano(),
		ShardID:     0,
		Dungeon:     dungeon.DefaultConfig(),
		GenAttempts: 8,
	}
}
