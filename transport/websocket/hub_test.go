package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/sentry-grid/game/service"
)

func testSubscriber(hub *Hub, sessionID string) *subscriber {
	return &subscriber{hub: hub, sessionID: normalizeID(sessionID), outbox: make(chan []byte, 8)}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.subs == nil {
		t.Error("Hub subscriber map is nil")
	}
	if hub.events == nil || hub.join == nil || hub.leave == nil || hub.countQueries == nil {
		t.Error("Hub channels must be initialised")
	}
}

func TestHubAdd(t *testing.T) {
	hub := NewHub()
	sub := testSubscriber(hub, "test-session")

	hub.add(sub)

	if _, ok := hub.subs["test-session"][sub]; !ok {
		t.Error("Subscriber was not added to its session")
	}
	if len(hub.subs["test-session"]) != 1 {
		t.Errorf("Expected 1 subscriber, got %d", len(hub.subs["test-session"]))
	}
}

func TestHubDrop(t *testing.T) {
	hub := NewHub()
	first := testSubscriber(hub, "s1")
	second := testSubscriber(hub, "s1")

	hub.add(first)
	hub.add(second)
	hub.drop(first)

	if _, ok := hub.subs["s1"][second]; !ok || len(hub.subs["s1"]) != 1 {
		t.Error("Expected only the second subscriber to remain")
	}
	if _, ok := <-first.outbox; ok {
		t.Error("Expected a dropped subscriber's outbox to be closed")
	}

	// Dropping twice is a no-op
	hub.drop(first)

	hub.drop(second)
	if _, exists := hub.subs["s1"]; exists {
		t.Error("Session should be forgotten after its last subscriber leaves")
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()

	sub := testSubscriber(hub, "abcd")
	other := testSubscriber(hub, "ffff")
	hub.add(sub)
	hub.add(other)

	hub.BroadcastToSession("ABCD", service.WorldEvent{
		Type:      service.EventObstacleAdded,
		Message:   "Added guard at (1,0)",
		Timestamp: time.Now(),
	})

	// Drain the queued message the way Run would
	select {
	case msg := <-hub.events:
		if msg.SessionID != "abcd" {
			t.Errorf("Expected lower-cased session ID, got %s", msg.SessionID)
		}
		hub.deliver(msg)
	default:
		t.Fatal("Expected a queued event")
	}

	select {
	case data := <-sub.outbox:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if msg.Event != service.EventObstacleAdded {
			t.Errorf("Expected event %s, got %s", service.EventObstacleAdded, msg.Event)
		}
		if msg.Message != "Added guard at (1,0)" {
			t.Errorf("Unexpected message text %q", msg.Message)
		}
	default:
		t.Error("No message delivered to the session subscriber")
	}

	select {
	case <-other.outbox:
		t.Error("Subscriber of another session must not receive the event")
	default:
	}
}

func TestHubDeliverDisconnectsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	slow := &subscriber{hub: hub, sessionID: "slow", outbox: make(chan []byte, 1)}
	hub.add(slow)

	msg := &Message{SessionID: "slow", Event: service.EventSafetyChecked}
	hub.deliver(msg)
	hub.deliver(msg)

	if _, exists := hub.subs["slow"]; exists {
		t.Error("Expected the slow subscriber to be dropped")
	}
}

func TestHubBroadcastDropsWhenSaturated(t *testing.T) {
	hub := NewHub()

	events := make([]service.WorldEvent, cap(hub.events)+5)
	for i := range events {
		events[i] = service.WorldEvent{Type: service.EventSafetyChecked, Timestamp: time.Now()}
	}

	done := make(chan struct{})
	go func() {
		hub.BroadcastToSession("busy", events...)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastToSession blocked on a saturated hub")
	}

	if len(hub.events) != cap(hub.events) {
		t.Errorf("Expected full queue, got %d/%d", len(hub.events), cap(hub.events))
	}
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=Msg1"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// Give time for registration
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastToSession("msg1", service.WorldEvent{
		Type:      service.EventPathFound,
		Message:   "Path of 4 moves: NEES",
		Timestamp: time.Now(),
		Data:      map[string]string{"path": "NEES"},
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message struct {
		SessionID string            `json:"session_id"`
		Event     string            `json:"event"`
		Data      map[string]string `json:"data"`
	}
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}

	if message.SessionID != "msg1" {
		t.Errorf("Expected session msg1, got %s", message.SessionID)
	}
	if message.Event != service.EventPathFound || message.Data["path"] != "NEES" {
		t.Errorf("Unexpected message: %+v", message)
	}
}

func TestHubRunStopsOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestHubSubscribers(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"?session=Count", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for {
		n, err := hub.Subscribers(context.Background(), "count")
		if err != nil {
			t.Fatalf("Subscribers failed: %v", err)
		}
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected 1 subscriber, got %d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if n, _ := hub.Subscribers(context.Background(), "nobody"); n != 0 {
		t.Errorf("Expected 0 subscribers for an unknown session, got %d", n)
	}

	cancel()
	<-hub.done
	if _, err := hub.Subscribers(context.Background(), "count"); err == nil {
		t.Error("Expected an error once the hub has stopped")
	}
}
