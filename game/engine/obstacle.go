package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Kind identifies an obstacle variant
type Kind string

const (
	KindGuard  Kind = "guard"
	KindFence  Kind = "fence"
	KindSensor Kind = "sensor"
	KindCamera Kind = "camera"
	KindLaser  Kind = "laser"
)

// Kinds lists every obstacle variant in menu order
var Kinds = []Kind{KindGuard, KindFence, KindSensor, KindCamera, KindLaser}

var (
	ErrInvalidObstacle = errors.New("invalid obstacle")
	ErrUnknownKind     = errors.New("unknown obstacle kind")
)

// Obstacle is the closed set of obstacle variants. The unexported method
// keeps the set sealed to this package; IsBlocked and Symbol switch over it.
type Obstacle interface {
	Kind() Kind
	Anchor() Position
	sealed()
}

// Guard blocks exactly its own cell
type Guard struct {
	Location Position
}

// Fence blocks an inclusive axis-aligned segment
type Fence struct {
	Start Position
	End   Position
}

// Sensor blocks every cell within Range (Euclidean) of Location
type Sensor struct {
	Location Position
	Range    float64
}

// Camera blocks its own cell and the 90 degree cone in Facing
type Camera struct {
	Location Position
	Facing   Direction
}

// LaserBarrier blocks its own cell and every Duration-th cell along the ray in Facing
type LaserBarrier struct {
	Location Position
	Facing   Direction
	Duration int
}

func (Guard) Kind() Kind        { return KindGuard }
func (Fence) Kind() Kind        { return KindFence }
func (Sensor) Kind() Kind       { return KindSensor }
func (Camera) Kind() Kind       { return KindCamera }
func (LaserBarrier) Kind() Kind { return KindLaser }

func (g Guard) Anchor() Position        { return g.Location }
func (f Fence) Anchor() Position        { return f.Start }
func (s Sensor) Anchor() Position       { return s.Location }
func (c Camera) Anchor() Position       { return c.Location }
func (l LaserBarrier) Anchor() Position { return l.Location }

func (Guard) sealed()        {}
func (Fence) sealed()        {}
func (Sensor) sealed()       {}
func (Camera) sealed()       {}
func (LaserBarrier) sealed() {}

// NewGuard creates a guard at location
func NewGuard(location Position) Guard {
	return Guard{Location: location}
}

// NewFence creates a fence between two distinct cells sharing an X or a Y coordinate
func NewFence(start, end Position) (Fence, error) {
	if start == end {
		return Fence{}, fmt.Errorf("%w: fence start and end must differ", ErrInvalidObstacle)
	}
	if start.X != end.X && start.Y != end.Y {
		return Fence{}, fmt.Errorf("%w: fence (%d,%d)-(%d,%d) must be horizontal or vertical",
			ErrInvalidObstacle, start.X, start.Y, end.X, end.Y)
	}
	return Fence{Start: start, End: end}, nil
}

// NewSensor creates a sensor with a strictly positive range. +Inf is a
// sensor that blocks every cell; NaN is rejected.
func NewSensor(location Position, rng float64) (Sensor, error) {
	if !(rng > 0) {
		return Sensor{}, fmt.Errorf("%w: sensor range must be a positive number, got %v", ErrInvalidObstacle, rng)
	}
	return Sensor{Location: location, Range: rng}, nil
}

// NewCamera creates a camera facing one of the cardinal directions
func NewCamera(location Position, facing Direction) (Camera, error) {
	if !facing.Valid() {
		return Camera{}, fmt.Errorf("%w: camera: %w", ErrInvalidObstacle, ErrInvalidDirection)
	}
	return Camera{Location: location, Facing: facing}, nil
}

// NewLaserBarrier creates a laser barrier with a strictly positive duration
func NewLaserBarrier(location Position, facing Direction, duration int) (LaserBarrier, error) {
	if !facing.Valid() {
		return LaserBarrier{}, fmt.Errorf("%w: laser: %w", ErrInvalidObstacle, ErrInvalidDirection)
	}
	if duration <= 0 {
		return LaserBarrier{}, fmt.Errorf("%w: laser duration must be positive, got %d", ErrInvalidObstacle, duration)
	}
	return LaserBarrier{Location: location, Facing: facing, Duration: duration}, nil
}

// ParseKind maps a user token to an obstacle kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "guard", "g":
		return KindGuard, nil
	case "fence", "f":
		return KindFence, nil
	case "sensor", "s":
		return KindSensor, nil
	case "camera", "c":
		return KindCamera, nil
	case "laser", "laser_barrier", "laserbarrier", "l":
		return KindLaser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Build validates a creation request and returns the obstacle it describes
func Build(spec ObstacleSpec) (Obstacle, error) {
	kind, err := ParseKind(spec.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindGuard:
		return NewGuard(spec.Location), nil
	case KindFence:
		if spec.End == nil {
			return nil, fmt.Errorf("%w: fence requires an end position", ErrInvalidObstacle)
		}
		return NewFence(spec.Location, *spec.End)
	case KindSensor:
		return NewSensor(spec.Location, spec.Range)
	case KindCamera:
		dir, err := ParseDirection(spec.Direction)
		if err != nil {
			return nil, fmt.Errorf("%w: camera: %w", ErrInvalidObstacle, err)
		}
		return NewCamera(spec.Location, dir)
	case KindLaser:
		dir, err := ParseDirection(spec.Direction)
		if err != nil {
			return nil, fmt.Errorf("%w: laser: %w", ErrInvalidObstacle, err)
		}
		return NewLaserBarrier(spec.Location, dir, spec.Duration)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
}

// SpecOf returns the creation request that reproduces o
func SpecOf(o Obstacle) ObstacleSpec {
	switch o := o.(type) {
	case Guard:
		return ObstacleSpec{Kind: string(KindGuard), Location: o.Location}
	case Fence:
		end := o.End
		return ObstacleSpec{Kind: string(KindFence), Location: o.Start, End: &end}
	case Sensor:
		return ObstacleSpec{Kind: string(KindSensor), Location: o.Location, Range: o.Range}
	case Camera:
		return ObstacleSpec{Kind: string(KindCamera), Location: o.Location, Direction: string(o.Facing)}
	case LaserBarrier:
		return ObstacleSpec{Kind: string(KindLaser), Location: o.Location, Direction: string(o.Facing), Duration: o.Duration}
	}
	return ObstacleSpec{}
}

// IsBlocked reports whether obstacle o blocks cell p. Every variant is O(1).
func IsBlocked(o Obstacle, p Position) bool {
	switch o := o.(type) {
	case Guard:
		return p == o.Location
	case Fence:
		return fenceBlocks(o, p)
	case Sensor:
		dx := float64(p.X - o.Location.X)
		dy := float64(p.Y - o.Location.Y)
		return math.Sqrt(dx*dx+dy*dy) <= o.Range
	case Camera:
		return cameraBlocks(o, p)
	case LaserBarrier:
		return laserBlocks(o, p)
	}
	return false
}

// Symbol returns the map character drawn for o
func Symbol(o Obstacle) rune {
	switch o.(type) {
	case Guard:
		return 'G'
	case Fence:
		return 'F'
	case Sensor:
		return 'S'
	case Camera:
		return 'C'
	case LaserBarrier:
		return 'L'
	}
	return EmptySymbol
}

// Describe returns a one-line human readable description of o
func Describe(o Obstacle) string {
	switch o := o.(type) {
	case Guard:
		return fmt.Sprintf("guard at (%d,%d)", o.Location.X, o.Location.Y)
	case Fence:
		return fmt.Sprintf("fence (%d,%d)-(%d,%d)", o.Start.X, o.Start.Y, o.End.X, o.End.Y)
	case Sensor:
		return fmt.Sprintf("sensor at (%d,%d) range %g", o.Location.X, o.Location.Y, o.Range)
	case Camera:
		return fmt.Sprintf("camera at (%d,%d) facing %s", o.Location.X, o.Location.Y, o.Facing.Name())
	case LaserBarrier:
		return fmt.Sprintf("laser at (%d,%d) facing %s every %d", o.Location.X, o.Location.Y, o.Facing.Name(), o.Duration)
	}
	return "unknown obstacle"
}

func fenceBlocks(f Fence, p Position) bool {
	switch {
	case f.Start.X == f.End.X:
		return p.X == f.Start.X && between(p.Y, f.Start.Y, f.End.Y)
	case f.Start.Y == f.End.Y:
		return p.Y == f.Start.Y && between(p.X, f.Start.X, f.End.X)
	}
	return false
}

func cameraBlocks(c Camera, p Position) bool {
	if p == c.Location {
		return true
	}
	dx := p.X - c.Location.X
	dy := p.Y - c.Location.Y

	switch c.Facing {
	case North:
		return dy < 0 && abs(dx) <= abs(dy)
	case South:
		return dy > 0 && abs(dx) <= abs(dy)
	case East:
		return dx > 0 && abs(dy) <= abs(dx)
	case West:
		return dx < 0 && abs(dy) <= abs(dx)
	}
	return false
}

func laserBlocks(l LaserBarrier, p Position) bool {
	if p == l.Location {
		return true
	}
	if l.Duration <= 0 {
		return false
	}
	dx := p.X - l.Location.X
	dy := p.Y - l.Location.Y

	var distance int
	switch l.Facing {
	case North:
		if dx != 0 || dy >= 0 {
			return false
		}
		distance = -dy
	case South:
		if dx != 0 || dy <= 0 {
			return false
		}
		distance = dy
	case East:
		if dy != 0 || dx <= 0 {
			return false
		}
		distance = dx
	case West:
		if dy != 0 || dx >= 0 {
			return false
		}
		distance = -dx
	default:
		return false
	}
	return distance%l.Duration == 0
}

// between reports whether v lies in the inclusive range spanned by a and b
func between(v, a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return a <= v && v <= b
}
