package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/sentry-grid/game/engine"
	"github.com/wricardo/sentry-grid/game/service"
	"github.com/wricardo/sentry-grid/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.WorldService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil, in which case no
// events are broadcast and /ws is not served.
func NewServer(worldService service.WorldService, hub *websocket.Hub) *Server {
	s := &Server{
		service: worldService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Obstacles
	api.HandleFunc("/sessions/{id}/obstacles", s.handleAddObstacle).Methods("POST")
	api.HandleFunc("/sessions/{id}/obstacles", s.handleListObstacles).Methods("GET")

	// Queries
	api.HandleFunc("/sessions/{id}/safety", s.handleSafeDirections).Methods("GET")
	api.HandleFunc("/sessions/{id}/path", s.handleFindPath).Methods("POST")
	api.HandleFunc("/sessions/{id}/map", s.handleRenderMap).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
		api.HandleFunc("/sessions/{id}/subscribers", s.handleSubscribers).Methods("GET")
	}

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service and engine errors onto status codes
func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrConfigNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidObstacle),
		errors.Is(err, engine.ErrUnknownKind),
		errors.Is(err, engine.ErrInvalidDirection),
		errors.Is(err, service.ErrWindowTooLarge):
		status = http.StatusBadRequest
	}
	respondError(w, status, err.Error())
}

func (s *Server) broadcast(sessionID string, events []service.WorldEvent) {
	if s.hub != nil && len(events) > 0 {
		s.hub.BroadcastToSession(sessionID, events...)
	}
}

// queryInt reads an integer query parameter. ok is false when the
// parameter is absent; err is set when it is present but malformed.
func queryInt(r *http.Request, name string) (value int, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return value, true, nil
}

// queryCorner reads an optional x/y pair. Both or neither must be given.
func queryCorner(r *http.Request, xName, yName string) (*engine.Position, error) {
	x, hasX, err := queryInt(r, xName)
	if err != nil {
		return nil, err
	}
	y, hasY, err := queryInt(r, yName)
	if err != nil {
		return nil, err
	}
	if hasX != hasY {
		return nil, fmt.Errorf("%s and %s must be given together", xName, yName)
	}
	if !hasX {
		return nil, nil
	}
	return &engine.Position{X: x, Y: y}, nil
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := s.service.CreateSession(r.Context(), req.ConfigID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created" (default), "accessed"
	order := query.Get("order")    // "asc" (default), "desc"
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "created"
	}
	if order == "" {
		order = "asc"
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "accessed" {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		} else {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		}

		if order == "desc" {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Obstacle Handlers

func (s *Server) handleAddObstacle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var spec engine.ObstacleSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.AddObstacle(r.Context(), sessionID, spec)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.Events)
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListObstacles(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	obstacles, err := s.service.ListObstacles(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if obstacles == nil {
		obstacles = []engine.Placed{}
	}
	respondJSON(w, http.StatusOK, obstacles)
}

// Query Handlers

func (s *Server) handleSafeDirections(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	p, err := queryCorner(r, "x", "y")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p == nil {
		respondError(w, http.StatusBadRequest, "x and y query parameters are required")
		return
	}

	result, err := s.service.SafeDirections(r.Context(), sessionID, *p)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.Events)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleFindPath(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Start *engine.Position `json:"start"`
		Goal  *engine.Position `json:"goal"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Start == nil || req.Goal == nil {
		respondError(w, http.StatusBadRequest, "start and goal are required")
		return
	}

	result, err := s.service.FindPath(r.Context(), sessionID, *req.Start, *req.Goal)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.Events)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRenderMap(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	topLeft, err := queryCorner(r, "x1", "y1")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	bottomRight, err := queryCorner(r, "x2", "y2")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.RenderMap(r.Context(), sessionID, topLeft, bottomRight)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.Events)
	respondJSON(w, http.StatusOK, result)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if configs == nil {
		configs = []*service.ConfigInfo{}
	}
	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := mux.Vars(r)["name"]

	config, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, config)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

func (s *Server) handleSubscribers(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	n, err := s.hub.Subscribers(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "websocket hub unavailable")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":  sessionID,
		"subscribers": n,
	})
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
