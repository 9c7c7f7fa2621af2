package websocket

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/sentry-grid/game/engine"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only send control frames
	maxInboundSize = 512
)

// subscriber is one WebSocket connection following a session
type subscriber struct {
	hub       *Hub
	conn      *websocket.Conn
	outbox    chan []byte
	sessionID string
}

func newSubscriber(hub *Hub, conn *websocket.Conn, sessionID string) *subscriber {
	return &subscriber{
		hub:       hub,
		conn:      conn,
		outbox:    make(chan []byte, engine.WebSocketBufferSize),
		sessionID: normalizeID(sessionID),
	}
}

// readLoop discards inbound frames and answers pongs until the peer goes away
func (s *subscriber) readLoop() {
	defer func() {
		select {
		case s.hub.leave <- s:
		case <-s.hub.done:
		}
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxInboundSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error on session %s: %v", s.sessionID, err)
			}
			return
		}
	}
}

// writeLoop sends one text frame per event and pings the peer periodically
func (s *subscriber) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.outbox:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
