package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/sentry-grid/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrWindowTooLarge  = errors.New("map window too large")
)

// WorldService defines all world-related operations
type WorldService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Obstacles
	AddObstacle(ctx context.Context, sessionID string, spec engine.ObstacleSpec) (*ObstacleResult, error)
	ListObstacles(ctx context.Context, sessionID string) ([]engine.Placed, error)

	// Queries
	SafeDirections(ctx context.Context, sessionID string, p engine.Position) (*SafetyResult, error)
	FindPath(ctx context.Context, sessionID string, start, goal engine.Position) (*PathResponse, error)
	RenderMap(ctx context.Context, sessionID string, topLeft, bottomRight *engine.Position) (*MapResult, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.WorldConfig, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.WorldConfig) (*Session, error)
	// Touch returns the session and refreshes its last access time
	Touch(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
}

// ConfigManager handles world configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.WorldConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.WorldConfig
}

// Session represents an active world
type Session struct {
	ID             string
	Engine         *engine.GridEngine
	Config         *engine.WorldConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
