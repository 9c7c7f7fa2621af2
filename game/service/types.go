package service

import (
	"time"

	"github.com/wricardo/sentry-grid/game/engine"
)

// Event types broadcast to session subscribers
const (
	EventObstacleAdded = "obstacle_added"
	EventSafetyChecked = "safety_checked"
	EventPathFound     = "path_found"
	EventPathFailed    = "path_failed"
	EventMapRendered   = "map_rendered"
)

// SessionInfo provides information about a world session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	ObstacleCount  int                 `json:"obstacle_count"`
	Obstacles      []engine.Placed     `json:"obstacles"`
	View           engine.Window       `json:"view"`
	WorldConfig    *engine.WorldConfig `json:"world_config"`
}

// ObstacleResult contains the result of adding an obstacle
type ObstacleResult struct {
	Obstacle      engine.Placed `json:"obstacle"`
	ObstacleCount int           `json:"obstacle_count"`
	Events        []WorldEvent  `json:"events,omitempty"`
}

// SafetyResult wraps a safety report with the events it produced
type SafetyResult struct {
	engine.SafetyReport
	Events []WorldEvent `json:"events,omitempty"`
}

// PathResponse wraps a path search result. Path is the compact move string
// (for example "NEES") and Detour counts steps beyond the Manhattan distance.
type PathResponse struct {
	engine.PathResult
	Path   string       `json:"path"`
	Detour int          `json:"detour"`
	Events []WorldEvent `json:"events,omitempty"`
}

// MapResult wraps a rendered map view
type MapResult struct {
	engine.MapView
	Events []WorldEvent `json:"events,omitempty"`
}

// WorldEvent represents something that happened in a session
type WorldEvent struct {
	Type      string      `json:"type"` // "obstacle_added", "safety_checked", "path_found", "path_failed", "map_rendered"
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// ConfigInfo provides information about a world configuration
type ConfigInfo struct {
	Filename      string `json:"filename"`
	ConfigID      string `json:"config_id"` // The identifier to use for session creation
	Name          string `json:"name"`      // Display name
	Description   string `json:"description"`
	ObstacleCount int    `json:"obstacle_count"`
}
