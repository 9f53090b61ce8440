package server

import (
	"context"
	"errors"
	"sync"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/internal/engine"
	"dungeon-kernel/internal/network"
	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNotController возвращается, когда зритель шлет игровую команду.
	ErrNotController = errors.New("client does not control the player")
	ErrBusy          = errors.New("command queue full")
	ErrSessionClosed = errors.New("session closed")
)

type sessionCommand struct {
	ClientID string
	Cmd      domain.Command
}

type inspectRequest struct {
	fn   func(g *engine.Game)
	done chan struct{}
}

// Session крутит одну игру в своей горутине и единственная ее трогает.
// Клиенты обращаются к ней через Submit и Inspect, остальное узнают из
// разосланных снапшотов.
type Session struct {
	Hub *network.Broadcaster

	game     *engine.Game
	commands chan sessionCommand
	inspect  chan inspectRequest
	closed   chan struct{}

	mu         sync.Mutex
	controller string

	log *logrus.Entry
}

func NewSession(game *engine.Game, hub *network.Broadcaster) *Session {
	return &Session{
		Hub:      hub,
		game:     game,
		commands: make(chan sessionCommand, 16),
		inspect:  make(chan inspectRequest),
		closed:   make(chan struct{}),
		log:      logger.Log.WithField("component", "session"),
	}
}

// Run ведет игру, пока игрок не выйдет или ctx не будет отменен.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.closed)
	s.log.Info("Session loop started")

	err := s.game.Run(ctx, s)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	s.log.WithField("turn", s.game.Turn).Info("Session loop stopped")
	return err
}

// NextCommand реализует engine.Input. Рассылает снапшот и ждет команду от
// управляющего клиента, обслуживая debug-запросы во время ожидания.
func (s *Session) NextCommand(ctx context.Context, snap *api.Snapshot) (domain.Command, error) {
	s.Hub.Broadcast(snap)

	for {
		select {
		case <-ctx.Done():
			return domain.Command{}, ctx.Err()

		case req := <-s.inspect:
			req.fn(s.game)
			close(req.done)

		case sc := <-s.commands:
			if !s.IsController(sc.ClientID) {
				// Управление сменилось, пока команда стояла в очереди.
				continue
			}
			s.log.WithFields(logrus.Fields{
				"client":  sc.ClientID,
				"command": sc.Cmd.Kind.String(),
			}).Debug("Command accepted")
			return sc.Cmd, nil
		}
	}
}

// Claim отдает управление clientID, если оно свободно. Возвращает, управляет
// ли clientID игроком после вызова.
func (s *Session) Claim(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.controller == "" {
		s.controller = clientID
		s.log.WithField("client", clientID).Info("Player claimed")
	}
	return s.controller == clientID
}

// Release освобождает игрока, если им управлял clientID. Игра просто ждет
// следующего управляющего.
func (s *Session) Release(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.controller == clientID {
		s.controller = ""
		s.log.WithField("client", clientID).Info("Player released")
	}
}

func (s *Session) IsController(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clientID != "" && s.controller == clientID
}

// Submit ставит команду от clientID в очередь, не блокируясь.
func (s *Session) Submit(clientID string, cmd domain.Command) error {
	if !s.IsController(clientID) {
		return ErrNotController
	}
	select {
	case <-s.closed:
		return ErrSessionClosed
	default:
	}
	select {
	case s.commands <- sessionCommand{ClientID: clientID, Cmd: cmd}:
		return nil
	default:
		return ErrBusy
	}
}

// Inspect выполняет fn в горутине сессии, пока игра ждет ввода, поэтому fn
// видит согласованный мир. Ссылки на мир нельзя хранить после возврата.
func (s *Session) Inspect(ctx context.Context, fn func(g *engine.Game)) error {
	req := inspectRequest{fn: fn, done: make(chan struct{})}
	select {
	case s.inspect <- req:
	case <-s.closed:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done закрывается после выхода из Run.
func (s *Session) Done() <-chan struct{} {
	return s.closed
}
