package server

import (
	"net/http"
	"time"

	"cavern-combat/internal/network"
	"cavern-combat/pkg/api"
	"cavern-combat/pkg/logger"

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

// Client - зритель одного боя: посредник между Websocket и Broadcaster.
// Зритель только смотрит, входящие сообщения нужны лишь для pong и закрытия.
type Client struct {
	Hub      *network.Broadcaster
	Conn     *websocket.Conn
	BattleID string

	subID uint64
	send  <-chan api.RoundSnapshot
	log   *logrus.Entry
}

// NewClient сразу подписывает зрителя, чтобы не потерять снимки до старта пампов.
func NewClient(hub *network.Broadcaster, conn *websocket.Conn, battleID string) *Client {
	subID, send := hub.Subscribe(battleID)
	return &Client{
		Hub:      hub,
		Conn:     conn,
		BattleID: battleID,
		subID:    subID,
		send:     send,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "spectator",
			"battle_id": battleID,
		}),
	}
}

// readPump ждет закрытия соединения и отвечает на pong
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unsubscribe(c.BattleID, c.subID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Spectator disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	c.log.Info("Spectator connected")

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Errorf("WS Error: %v", err)
			}
			return
		}
	}
}

// writePump отправляет снимки клиенту + Ping
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
		case message, ok := <-c.send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				// Бой окончен или зритель отписан
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "battle finished")
				if err := c.Conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
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
