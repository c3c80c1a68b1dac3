package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hexbrawl/server/internal/protocol"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 54 * time.Second // Must be less than pongWait
	maxMsgSize  = 8192
	sendBufSize = 256
)

// Client is one WebSocket connection. The id is stable across resumes;
// name is set by setName and only touched from the read goroutine.
type Client struct {
	id   string
	name string
	conn *websocket.Conn
	send chan []byte
}

// readPump reads frames from the connection and dispatches them until
// the peer goes away.
func (s *Server) readPump(c *Client) {
	defer func() {
		s.handleDisconnect(c)
		c.conn.Close()
		log.Info().Str("clientId", c.id).Msg("WebSocket client disconnected")
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("clientId", c.id).Msg("WebSocket unexpected close")
			}
			break
		}
		s.handleFrame(c, data)
	}
}

// writePump writes queued frames and keeps the connection alive with
// pings.
func (s *Server) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendError(message string) {
	c.enqueue(mustMarshal(protocol.ErrorFrame(message)))
}

func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		log.Warn().Str("clientId", c.id).Msg("Dropping WebSocket message, buffer full")
	}
}
