package engine

import (
	"context"
	"slices"
)

// ctxCheckInterval is how many expansions run between context checks
const ctxCheckInterval = 1024

// FindPath runs a breadth-first search over the 4-connected grid from start
// to goal. Edges are gated by safe directions, so the first time goal is
// enqueued the recorded path is a shortest one in steps. maxNodes bounds the
// number of visited cells; zero or less means DefaultMaxSearchNodes.
func (r *Registry) FindPath(ctx context.Context, start, goal Position, maxNodes int) PathResult {
	result := PathResult{Start: start, Goal: goal}

	if start == goal {
		result.Outcome = AlreadyThere
		return result
	}

	obstacles := r.snapshot()
	if blockedIn(obstacles, goal) {
		result.Outcome = GoalBlocked
		return result
	}

	if maxNodes <= 0 {
		maxNodes = DefaultMaxSearchNodes
	}

	cameFrom := map[Position]Position{start: start}
	queue := []Position{start}

	for expanded := 0; len(queue) > 0; expanded++ {
		if expanded%ctxCheckInterval == 0 && ctx.Err() != nil {
			result.Outcome = SearchLimit
			result.Explored = len(cameFrom)
			return result
		}
		if len(cameFrom) > maxNodes {
			result.Outcome = SearchLimit
			result.Explored = len(cameFrom)
			return result
		}

		current := queue[0]
		queue = queue[1:]

		for _, dir := range safeDirectionsIn(obstacles, current) {
			next := current.Step(dir)
			if _, seen := cameFrom[next]; seen {
				continue
			}
			cameFrom[next] = current

			if next == goal {
				result.Outcome = PathFound
				result.Moves = reconstructPath(cameFrom, start, goal)
				result.Explored = len(cameFrom)
				return result
			}
			queue = append(queue, next)
		}
	}

	result.Outcome = NoPath
	result.Explored = len(cameFrom)
	return result
}

// reconstructPath walks predecessor links back from goal and returns the
// moves in start-to-goal order
func reconstructPath(cameFrom map[Position]Position, start, goal Position) []Direction {
	var moves []Direction
	for cur := goal; cur != start; {
		prev := cameFrom[cur]
		dir, ok := DirectionBetween(prev, cur)
		if !ok {
			return nil
		}
		moves = append(moves, dir)
		cur = prev
	}
	slices.Reverse(moves)
	return moves
}
