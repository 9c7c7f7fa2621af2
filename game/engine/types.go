package engine

import "time"

const (
	// Rendering symbols
	EmptySymbol = '.'

	// Search and rendering limits
	DefaultMaxSearchNodes = 250000
	MaxRenderCells        = 10000
	WebSocketBufferSize   = 256
)

// Position represents x,y coordinates on the unbounded grid.
// North decreases Y, East increases X.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Window is an inclusive rectangle of cells used for map rendering
type Window struct {
	TopLeft     Position `json:"top_left" yaml:"top_left"`
	BottomRight Position `json:"bottom_right" yaml:"bottom_right"`
}

// Route is a named start/goal pair declared by a world config. Moves, when
// present, is a recorded walk from Start that should arrive at Goal.
type Route struct {
	Name  string   `json:"name" yaml:"name"`
	Start Position `json:"start" yaml:"start"`
	Goal  Position `json:"goal" yaml:"goal"`
	Moves []string `json:"moves,omitempty" yaml:"moves,omitempty"`
}

// WorldConfig represents a world definition loaded from JSON or YAML
type WorldConfig struct {
	Name           string         `json:"name" yaml:"name"`
	Description    string         `json:"description" yaml:"description"`
	Obstacles      []ObstacleSpec `json:"obstacles" yaml:"obstacles"`
	View           *Window        `json:"view,omitempty" yaml:"view,omitempty"`
	Routes         []Route        `json:"routes,omitempty" yaml:"routes,omitempty"`
	MaxSearchNodes int            `json:"max_search_nodes,omitempty" yaml:"max_search_nodes,omitempty"`
}

// ObstacleSpec is the wire form of an obstacle creation request
type ObstacleSpec struct {
	Kind      string    `json:"kind" yaml:"kind"`
	Location  Position  `json:"location" yaml:"location"`
	End       *Position `json:"end,omitempty" yaml:"end,omitempty"`             // Fence only
	Range     float64   `json:"range,omitempty" yaml:"range,omitempty"`         // Sensor only
	Direction string    `json:"direction,omitempty" yaml:"direction,omitempty"` // Camera and laser
	Duration  int       `json:"duration,omitempty" yaml:"duration,omitempty"`   // Laser only
}

// Placed is a registry entry
type Placed struct {
	ID       string       `json:"id"`
	Obstacle Obstacle     `json:"-"`
	Kind     Kind         `json:"kind"`
	Spec     ObstacleSpec `json:"spec"`
	Symbol   string       `json:"symbol"`
	AddedAt  time.Time    `json:"added_at"`
}

// SafetyReport is the result of a safe-direction query.
// When Blocked is true the position itself is compromised and Safe is empty.
type SafetyReport struct {
	Position  Position    `json:"position"`
	Blocked   bool        `json:"blocked"`
	BlockedBy string      `json:"blocked_by,omitempty"`
	Safe      []Direction `json:"safe"`
}

// PathOutcome tags the result of a path search
type PathOutcome string

const (
	AlreadyThere PathOutcome = "already_there"
	GoalBlocked  PathOutcome = "goal_blocked"
	PathFound    PathOutcome = "found"
	NoPath       PathOutcome = "no_path"
	SearchLimit  PathOutcome = "search_limit"
)

// PathResult is the result of a path search. Moves is only set for PathFound.
type PathResult struct {
	Outcome  PathOutcome `json:"outcome"`
	Start    Position    `json:"start"`
	Goal     Position    `json:"goal"`
	Moves    []Direction `json:"moves,omitempty"`
	Explored int         `json:"explored"`
}

// MapView is a rendered rectangle of the grid, one string per row
type MapView struct {
	TopLeft     Position `json:"top_left"`
	BottomRight Position `json:"bottom_right"`
	Rows        []string `json:"rows"`
}
