package engine

import (
	"context"
	"fmt"
)

// Engine provides the main interface for world operations
type Engine interface {
	// Obstacle management
	AddObstacle(spec ObstacleSpec) (Placed, error)
	Place(o Obstacle) Placed
	Obstacles() []Placed
	ObstacleCount() int

	// Queries
	IsBlocked(p Position) bool
	BlockedBy(p Position) (Placed, bool)
	SafeDirections(p Position) SafetyReport
	FindPath(ctx context.Context, start, goal Position) PathResult
	RenderMap(topLeft, bottomRight Position) MapView

	// Configuration
	GetConfig() *WorldConfig
}

// GridEngine implements the Engine interface over a single registry
type GridEngine struct {
	registry *Registry
	config   *WorldConfig
}

// NewEngine creates a new engine seeded with the obstacles of config
func NewEngine(config *WorldConfig) (*GridEngine, error) {
	if err := ValidateWorldConfig(config); err != nil {
		return nil, err
	}

	engine := &GridEngine{
		registry: NewRegistry(),
		config:   config,
	}

	for i, spec := range config.Obstacles {
		if _, err := engine.AddObstacle(spec); err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
	}

	return engine, nil
}

// NewEmptyEngine creates an engine with no obstacles, as at the start of an interactive session
func NewEmptyEngine(name string) *GridEngine {
	return &GridEngine{
		registry: NewRegistry(),
		config:   &WorldConfig{Name: name, Description: "Empty world"},
	}
}

// AddObstacle validates spec and appends the resulting obstacle
func (e *GridEngine) AddObstacle(spec ObstacleSpec) (Placed, error) {
	o, err := Build(spec)
	if err != nil {
		return Placed{}, err
	}
	return e.registry.Add(o), nil
}

// Place appends an already constructed obstacle
func (e *GridEngine) Place(o Obstacle) Placed {
	return e.registry.Add(o)
}

// Obstacles returns every obstacle in insertion order
func (e *GridEngine) Obstacles() []Placed {
	return e.registry.All()
}

// ObstacleCount returns the number of obstacles
func (e *GridEngine) ObstacleCount() int {
	return e.registry.Len()
}

// IsBlocked reports whether any obstacle blocks p
func (e *GridEngine) IsBlocked(p Position) bool {
	return e.registry.Blocked(p)
}

// ReplayMoves walks moves from start. It returns where the walk stopped and
// the 1-based number of the move that stepped onto a compromised cell, or 0
// when every step was safe.
func (e *GridEngine) ReplayMoves(start Position, moves []Direction) (Position, int) {
	trail := Walk(start, moves)
	for i, p := range trail[1:] {
		if e.IsBlocked(p) {
			return p, i + 1
		}
	}
	return trail[len(trail)-1], 0
}

// BlockedBy returns the first obstacle, in insertion order, blocking p
func (e *GridEngine) BlockedBy(p Position) (Placed, bool) {
	return e.registry.FirstBlocking(p)
}

// SafeDirections returns the safety report for p
func (e *GridEngine) SafeDirections(p Position) SafetyReport {
	return e.registry.SafeDirections(p)
}

// FindPath searches for a shortest safe path from start to goal
func (e *GridEngine) FindPath(ctx context.Context, start, goal Position) PathResult {
	maxNodes := 0
	if e.config != nil {
		maxNodes = e.config.MaxSearchNodes
	}
	return e.registry.FindPath(ctx, start, goal, maxNodes)
}

// RenderMap draws the rectangle from topLeft to bottomRight
func (e *GridEngine) RenderMap(topLeft, bottomRight Position) MapView {
	return e.registry.RenderMap(topLeft, bottomRight)
}

// GetConfig returns the world configuration the engine was built from
func (e *GridEngine) GetConfig() *WorldConfig {
	return e.config
}

// DefaultView returns the configured view, or a window framing every anchor
// with a margin of two cells when the config declares none
func (e *GridEngine) DefaultView() Window {
	if e.config != nil && e.config.View != nil {
		return *e.config.View
	}

	placed := e.registry.All()
	if len(placed) == 0 {
		return Window{TopLeft: Position{X: -5, Y: -5}, BottomRight: Position{X: 5, Y: 5}}
	}

	minP, maxP := placed[0].Obstacle.Anchor(), placed[0].Obstacle.Anchor()
	for _, p := range placed {
		for _, pos := range anchors(p.Obstacle) {
			minP.X = min(minP.X, pos.X)
			minP.Y = min(minP.Y, pos.Y)
			maxP.X = max(maxP.X, pos.X)
			maxP.Y = max(maxP.Y, pos.Y)
		}
	}

	const margin = 2
	return Window{
		TopLeft:     Position{X: minP.X - margin, Y: minP.Y - margin},
		BottomRight: Position{X: maxP.X + margin, Y: maxP.Y + margin},
	}
}

// anchors returns the defining cells of o
func anchors(o Obstacle) []Position {
	if f, ok := o.(Fence); ok {
		return []Position{f.Start, f.End}
	}
	return []Position{o.Anchor()}
}
