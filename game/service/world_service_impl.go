package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/wricardo/sentry-grid/game/engine"
)

// worldServiceImpl implements the WorldService interface
type worldServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewWorldService creates a new world service instance
func NewWorldService(sessions SessionManager, configs ConfigManager) WorldService {
	return &worldServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *worldServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new world session seeded from a config
func (s *worldServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.WorldConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Printf("[SESSION] created session=%s config=%s obstacles=%d", sess.ID, configID, sess.Engine.ObstacleCount())

	info := s.sessionInfo(sess)
	info.ConfigName = configID
	return info, nil
}

// GetSession retrieves session information
func (s *worldServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions, oldest first
func (s *worldServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *worldServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// AddObstacle appends an obstacle to a session's registry
func (s *worldServiceImpl) AddObstacle(ctx context.Context, sessionID string, spec engine.ObstacleSpec) (*ObstacleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	placed, err := sess.Engine.AddObstacle(spec)
	if err != nil {
		return nil, err
	}

	log.Printf("[OBSTACLE] session=%s id=%s %s", sess.ID, placed.ID, engine.Describe(placed.Obstacle))

	return &ObstacleResult{
		Obstacle:      placed,
		ObstacleCount: sess.Engine.ObstacleCount(),
		Events: []WorldEvent{{
			Type:      EventObstacleAdded,
			Message:   fmt.Sprintf("Added %s", engine.Describe(placed.Obstacle)),
			Timestamp: time.Now(),
			Data:      placed,
		}},
	}, nil
}

// ListObstacles returns a session's obstacles in insertion order
func (s *worldServiceImpl) ListObstacles(ctx context.Context, sessionID string) ([]engine.Placed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Obstacles(), nil
}

// SafeDirections reports which neighbours of p are open
func (s *worldServiceImpl) SafeDirections(ctx context.Context, sessionID string, p engine.Position) (*SafetyResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	report := sess.Engine.SafeDirections(p)

	message := fmt.Sprintf("Safe directions from (%d,%d): %s", p.X, p.Y, engine.FormatMoves(report.Safe))
	if report.Blocked {
		message = fmt.Sprintf("Position (%d,%d) is compromised", p.X, p.Y)
	} else if len(report.Safe) == 0 {
		message = fmt.Sprintf("No safe directions from (%d,%d)", p.X, p.Y)
	}

	return &SafetyResult{
		SafetyReport: report,
		Events: []WorldEvent{{
			Type:      EventSafetyChecked,
			Message:   message,
			Timestamp: time.Now(),
			Data:      report,
		}},
	}, nil
}

// FindPath searches for a shortest safe path between two cells
func (s *worldServiceImpl) FindPath(ctx context.Context, sessionID string, start, goal engine.Position) (*PathResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	result := sess.Engine.FindPath(ctx, start, goal)
	log.Printf("[PATH] session=%s start=(%d,%d) goal=(%d,%d) outcome=%s explored=%d took=%s",
		sess.ID, start.X, start.Y, goal.X, goal.Y, result.Outcome, result.Explored, time.Since(began))

	response := &PathResponse{
		PathResult: result,
		Path:       engine.FormatMoves(result.Moves),
		Detour:     engine.Detour(result),
	}

	event := WorldEvent{
		Type:      EventPathFailed,
		Timestamp: time.Now(),
		Data:      response.PathResult,
	}
	switch result.Outcome {
	case engine.PathFound:
		event.Type = EventPathFound
		event.Message = fmt.Sprintf("Path of %d moves: %s", len(result.Moves), response.Path)
	case engine.AlreadyThere:
		event.Type = EventPathFound
		event.Message = "Already at the goal"
	case engine.GoalBlocked:
		event.Message = fmt.Sprintf("Goal (%d,%d) is compromised", goal.X, goal.Y)
	case engine.NoPath:
		event.Message = "No safe path exists"
	case engine.SearchLimit:
		event.Message = fmt.Sprintf("Search stopped after exploring %d cells", result.Explored)
	}
	response.Events = []WorldEvent{event}

	return response, nil
}

// RenderMap renders a window of a session's grid. When both corners are nil
// the world's default view is used.
func (s *worldServiceImpl) RenderMap(ctx context.Context, sessionID string, topLeft, bottomRight *engine.Position) (*MapResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	window := sess.Engine.DefaultView()
	if topLeft != nil {
		window.TopLeft = *topLeft
	}
	if bottomRight != nil {
		window.BottomRight = *bottomRight
	}

	if window.Exceeds(engine.MaxRenderCells) {
		return nil, fmt.Errorf("%w: more than %d cells", ErrWindowTooLarge, engine.MaxRenderCells)
	}

	view := sess.Engine.RenderMap(window.TopLeft, window.BottomRight)

	return &MapResult{
		MapView: view,
		Events: []WorldEvent{{
			Type:      EventMapRendered,
			Message:   fmt.Sprintf("Rendered %dx%d map", view.Width(), len(view.Rows)),
			Timestamp: time.Now(),
		}},
	}, nil
}

// ListConfigs returns available world configurations
func (s *worldServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific world configuration
func (s *worldServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.WorldConfig, error) {
	return s.configs.LoadConfig(configName)
}

// session fetches a session and marks it as accessed
func (s *worldServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Touch(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return sess, nil
}

func (s *worldServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		ObstacleCount:  sess.Engine.ObstacleCount(),
		Obstacles:      sess.Engine.Obstacles(),
		View:           sess.Engine.DefaultView(),
		WorldConfig:    sess.Config,
	}
}
