package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four cardinal directions
type Direction string

const (
	North Direction = "N"
	South Direction = "S"
	East  Direction = "E"
	West  Direction = "W"
)

var ErrInvalidDirection = errors.New("invalid direction")

// Directions lists the cardinal directions in display order
var Directions = []Direction{North, South, East, West}

// ParseDirection accepts n/s/e/w, the full compass names, or up/down/right/left
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north", "up":
		return North, nil
	case "s", "south", "down":
		return South, nil
	case "e", "east", "right":
		return East, nil
	case "w", "west", "left":
		return West, nil
	default:
		return "", fmt.Errorf("%w: %q (use N, S, E or W)", ErrInvalidDirection, s)
	}
}

// Valid reports whether d is one of the four cardinal directions
func (d Direction) Valid() bool {
	switch d {
	case North, South, East, West:
		return true
	}
	return false
}

// Delta returns the x,y offset of one step in direction d
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// Name returns the lower-case compass name used in prompts and logs
func (d Direction) Name() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "unknown"
}

// Step returns the neighbouring position in direction d
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// DirectionBetween returns the direction that moves from one cell to an
// adjacent cell. ok is false when the cells are not 4-neighbours.
func DirectionBetween(from, to Position) (Direction, bool) {
	for _, d := range Directions {
		if from.Step(d) == to {
			return d, true
		}
	}
	return "", false
}

// FormatMoves joins a move sequence into a compact string such as "NEES"
func FormatMoves(moves []Direction) string {
	var b strings.Builder
	for _, m := range moves {
		b.WriteString(string(m))
	}
	return b.String()
}

// ParseMoves parses a list of direction tokens
func ParseMoves(tokens []string) ([]Direction, error) {
	moves := make([]Direction, 0, len(tokens))
	for i, tok := range tokens {
		d, err := ParseDirection(tok)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		moves = append(moves, d)
	}
	return moves, nil
}

// Walk applies moves from start and returns every visited position including start
func Walk(start Position, moves []Direction) []Position {
	trail := make([]Position, 0, len(moves)+1)
	trail = append(trail, start)
	cur := start
	for _, m := range moves {
		cur = cur.Step(m)
		trail = append(trail, cur)
	}
	return trail
}
