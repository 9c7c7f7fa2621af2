package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/sentry-grid/game/engine"
	"github.com/wricardo/sentry-grid/game/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the envelope pushed to subscribers of a session
type Message struct {
	SessionID string      `json:"session_id"`
	Event     string      `json:"event"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// countQuery asks the Run loop for the subscriber count of a session
type countQuery struct {
	sessionID string
	reply     chan int
}

// Hub fans world events out to the WebSocket subscribers of each session.
// Only the Run goroutine touches the subs map; everything else talks to it
// over channels.
type Hub struct {
	subs map[string]map[*subscriber]struct{}

	events       chan *Message
	join         chan *subscriber
	leave        chan *subscriber
	countQueries chan countQuery

	// Closed when Run returns
	done chan struct{}
}

// NewHub creates a hub; call Run to start delivering events
func NewHub() *Hub {
	return &Hub{
		subs:         make(map[string]map[*subscriber]struct{}),
		events:       make(chan *Message, engine.WebSocketBufferSize),
		join:         make(chan *subscriber),
		leave:        make(chan *subscriber),
		countQueries: make(chan countQuery),
		done:         make(chan struct{}),
	}
}

// Run owns the subscriber registry until ctx is done, then disconnects
// every subscriber
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.subs {
				for sub := range set {
					h.drop(sub)
				}
			}
			return

		case sub := <-h.join:
			h.add(sub)

		case sub := <-h.leave:
			h.drop(sub)

		case msg := <-h.events:
			h.deliver(msg)

		case q := <-h.countQueries:
			q.reply <- len(h.subs[q.sessionID])
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to sessionID
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sub := newSubscriber(h, conn, sessionID)

	select {
	case h.join <- sub:
	case <-h.done:
		conn.Close()
		return
	}

	go sub.writeLoop()
	go sub.readLoop()
}

// BroadcastToSession queues world events for every subscriber of a session.
// Events are dropped with a log line when the hub is saturated.
func (h *Hub) BroadcastToSession(sessionID string, events ...service.WorldEvent) {
	for _, event := range events {
		msg := &Message{
			SessionID: normalizeID(sessionID),
			Event:     event.Type,
			Message:   event.Message,
			Timestamp: event.Timestamp,
			Data:      event.Data,
		}

		select {
		case h.events <- msg:
		default:
			log.Printf("WebSocket hub saturated, dropping %s event for session %s", event.Type, sessionID)
		}
	}
}

// Subscribers reports how many connections currently follow sessionID.
// It returns ctx.Err() if the hub is busy past the deadline or stopped.
func (h *Hub) Subscribers(ctx context.Context, sessionID string) (int, error) {
	q := countQuery{sessionID: normalizeID(sessionID), reply: make(chan int, 1)}

	select {
	case h.countQueries <- q:
	case <-h.done:
		return 0, context.Canceled
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	return <-q.reply, nil
}

func (h *Hub) add(sub *subscriber) {
	set, ok := h.subs[sub.sessionID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[sub.sessionID] = set
	}
	set[sub] = struct{}{}

	log.Printf("Subscriber joined session %s (subscribers: %d)", sub.sessionID, len(set))
}

func (h *Hub) drop(sub *subscriber) {
	set, ok := h.subs[sub.sessionID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}

	delete(set, sub)
	close(sub.outbox)
	if len(set) == 0 {
		delete(h.subs, sub.sessionID)
	}

	log.Printf("Subscriber left session %s (subscribers: %d)", sub.sessionID, len(set))
}

// deliver encodes msg once and hands it to every subscriber of its session.
// Subscribers whose outbox is full are disconnected.
func (h *Hub) deliver(msg *Message) {
	set := h.subs[msg.SessionID]
	if len(set) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to encode %s event: %v", msg.Event, err)
		return
	}

	for sub := range set {
		select {
		case sub.outbox <- data:
		default:
			log.Printf("Subscriber of session %s is too slow, disconnecting", msg.SessionID)
			h.drop(sub)
		}
	}
}

// normalizeID makes session IDs case-insensitive, matching the session manager
func normalizeID(sessionID string) string {
	return strings.ToLower(sessionID)
}
