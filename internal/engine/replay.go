package engine

import (
	"context"
	"fmt"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

// PlayReplay re-simulates a recorded session headless. cfg supplies the
// generator parameters; the seed and map size come from the session. The game
// is returned in whatever state the last command left it.
func PlayReplay(ctx context.Context, cfg Config, session *domain.ReplaySession) (*Game, error) {
	cfg.Seed = session.Seed
	if session.Width > 0 && session.Height > 0 {
		cfg.Dungeon.Width = session.Width
		cfg.Dungeon.Height = session.Height
	}

	g, err := NewGame(cfg)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	commands := make([]domain.Command, len(session.Commands))
	for i, rc := range session.Commands {
		commands[i] = rc.Command
	}
	in := NewScriptedInput(commands...)

	if err := g.Run(ctx, in); err != nil {
		return g, fmt.Errorf("replay: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "replay",
		"seed":      session.Seed,
		"commands":  len(session.Commands),
		"unused":    in.Remaining(),
		"turn":      g.Turn,
	}).Info("Replay finished")
	return g, nil
}
