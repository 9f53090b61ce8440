package engine

import (
	"context"
	"errors"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/api"
)

// ErrEndOfInput is returned by an Input that has nothing more to give. Run
// treats it as a clean stop.
var ErrEndOfInput = errors.New("end of input")

// Input turns whatever a front-end collects (keys, websocket frames, a
// recorded file, a bot's decisions) into commands. NextCommand is called only
// when the turn machine waits for input and may block until one arrives.
type Input interface {
	NextCommand(ctx context.Context, snap *api.Snapshot) (domain.Command, error)
}

// InputFunc adapts a plain function to Input.
type InputFunc func(ctx context.Context, snap *api.Snapshot) (domain.Command, error)

func (f InputFunc) NextCommand(ctx context.Context, snap *api.Snapshot) (domain.Command, error) {
	return f(ctx, snap)
}

// ScriptedInput plays back a fixed list of commands, then reports
// ErrEndOfInput.
type ScriptedInput struct {
	commands []domain.Command
	next     int
}

func NewScriptedInput(commands ...domain.Command) *ScriptedInput {
	return &ScriptedInput{commands: commands}
}

func (s *ScriptedInput) NextCommand(ctx context.Context, _ *api.Snapshot) (domain.Command, error) {
	if err := ctx.Err(); err != nil {
		return domain.Command{}, err
	}
	if s.next >= len(s.commands) {
		return domain.Command{}, ErrEndOfInput
	}
	cmd := s.commands[s.next]
	s.next++
	return cmd, nil
}

func (s *ScriptedInput) Remaining() int {
	return len(s.commands) - s.next
}

// Run drives the turn machine until the input ends, the player quits, or ctx
// is cancelled. A snapshot is built only when input is needed. ErrQuit and
// ErrEndOfInput end the run without error.
func (g *Game) Run(ctx context.Context, in Input) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var cmd domain.Command
		if g.State.NeedsInput() {
			c, err := in.NextCommand(ctx, g.Snapshot())
			if errors.Is(err, ErrEndOfInput) {
				return nil
			}
			if err != nil {
				return err
			}
			cmd = c
		}

		if _, err := g.Step(cmd); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}
