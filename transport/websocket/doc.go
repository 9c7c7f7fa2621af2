// Package websocket pushes world events to browsers and tools that follow a
// session.
//
// A Hub owns every subscriber. Joins, leaves, events and subscriber-count
// queries reach it over channels and are handled by the single Run
// goroutine, so the registry needs no lock. Each subscriber runs a read loop
// (pong handling only, subscribers never send commands) and a write loop
// that sends one JSON frame per event:
//
//	{"session_id": "ab12", "event": "obstacle_added", "message": "...", "timestamp": "...", "data": {...}}
//
// BroadcastToSession never blocks: when the hub's queue is full the event is
// logged and dropped, and a subscriber whose outbox fills up is disconnected.
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//	hub.BroadcastToSession("ab12", events...)
package websocket
