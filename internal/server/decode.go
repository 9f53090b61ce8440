package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/api"
)

var ErrUnknownAction = errors.New("unknown action")

// decodePayload распаковывает raw в T и вызывает Validate, если он есть.
func decodePayload[T any](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) == 0 {
		return payload, errors.New("payload is required")
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("invalid payload format: %w", err)
	}
	if v, ok := any(payload).(api.Validator); ok {
		if err := v.Validate(); err != nil {
			return payload, fmt.Errorf("validation failed: %w", err)
		}
	}
	return payload, nil
}

// DecodeCommand превращает сообщение клиента в игровую команду. Для действий
// без аргументов payload игнорируется.
func DecodeCommand(msg api.ClientCommand) (domain.Command, error) {
	kind := domain.ParseCommandKind(msg.Action)

	switch kind {
	case domain.CmdNone:
		if !strings.EqualFold(msg.Action, domain.CmdNone.String()) {
			return domain.Command{}, fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
		}
		return domain.Command{}, nil

	case domain.CmdMove:
		p, err := decodePayload[api.DirectionPayload](msg.Payload)
		if err != nil {
			return domain.Command{}, fmt.Errorf("%s: %w", kind, err)
		}
		return domain.Move(p.Dx, p.Dy), nil

	case domain.CmdSelectItem:
		p, err := decodePayload[api.SlotPayload](msg.Payload)
		if err != nil {
			return domain.Command{}, fmt.Errorf("%s: %w", kind, err)
		}
		return domain.SelectItem(p.Slot), nil

	case domain.CmdSelectTarget:
		p, err := decodePayload[api.PositionPayload](msg.Payload)
		if err != nil {
			return domain.Command{}, fmt.Errorf("%s: %w", kind, err)
		}
		return domain.SelectTarget(domain.Position{X: p.X, Y: p.Y}), nil
	}

	return domain.Simple(kind), nil
}
