package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"marketplace/pkg/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client is one WebSocket connection. readPump and writePump are its only goroutines; every
// write to conn happens in writePump.
type client struct {
	id        string
	hub       *Hub
	conn      *websocket.Conn
	principal string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// enqueue never blocks. It reports false when the buffer is full or the client is closed.
func (c *client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) sendError(message string) {
	msg, err := encodeFrame(EventError, map[string]string{"message": message})
	if err == nil {
		c.enqueue(msg)
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.hub.disconnect(c)
		_ = c.conn.Close()
	})
}

func (c *client) readPump() {
	defer c.close()

	cfg := c.hub.cfg
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Realtime connection read failed", zap.String("conn_id", c.id), zap.Error(err))
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.sendError("malformed frame")
			continue
		}
		switch frame.Event {
		case EventAddUser:
			var userID string
			if err := json.Unmarshal(frame.Data, &userID); err != nil {
				c.sendError("add_user data must be a user id string")
				continue
			}
			c.hub.addUser(c, userID)
		default:
			c.sendError("unknown event " + frame.Event)
		}
	}
}

func (c *client) writePump() {
	cfg := c.hub.cfg
	ticker := time.NewTicker(cfg.PingPeriod())
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
