package server

import (
	"net/http"
	"time"

	"dungeon-kernel/pkg/api"
	"dungeon-kernel/pkg/logger"
	"dungeon-kernel/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и сессией. Первый подключившийся
// управляет игроком, остальные смотрят, пока он не уйдет.
type Client struct {
	ID      string
	Session *Session
	Conn    *websocket.Conn
	// Updates - личный канал из хаба, закрывается при отписке клиента.
	Updates chan *api.Snapshot
	// Send - прямые ответы клиенту, например ошибки.
	Send chan api.ErrorResponse

	log *logrus.Entry
}

func NewClient(session *Session, conn *websocket.Conn) *Client {
	id := "client_" + utils.GenerateID()
	return &Client{
		ID:      id,
		Session: session,
		Conn:    conn,
		Updates: session.Hub.Register(id),
		Send:    make(chan api.ErrorResponse, 16),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "ws_client",
			"client":    id,
			"remote":    conn.RemoteAddr().String(),
		}),
	}
}

// readPump читает команды от клиента и владеет его временем жизни.
func (c *Client) readPump() {
	defer func() {
		c.Session.Release(c.ID)
		c.Session.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	controller := c.Session.Claim(c.ID)
	c.log.WithField("controller", controller).Info("Client connected")

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg api.ClientCommand
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("WS read error")
			}
			return
		}

		cmd, err := DecodeCommand(msg)
		if err == nil {
			// Зритель перехватывает управление, как только место свободно.
			c.Session.Claim(c.ID)
			err = c.Session.Submit(c.ID, cmd)
		}
		if err != nil {
			c.log.WithError(err).WithField("action", msg.Action).Debug("Command rejected")
			c.reply(api.ErrorResponse{Type: "ERROR", Message: err.Error()})
		}
	}
}

func (c *Client) reply(msg api.ErrorResponse) {
	select {
	case c.Send <- msg:
	default:
	}
}

// writePump отправляет клиенту снапшоты и ошибки + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case snap, ok := <-c.Updates:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(snap); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case reply := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if err := c.Conn.WriteJSON(reply); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
