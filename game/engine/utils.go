package engine

// CountKind counts the obstacles of a specific kind
func CountKind(placed []Placed, kind Kind) int {
	count := 0
	for _, p := range placed {
		if p.Kind == kind {
			count++
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// Detour returns how many steps a path result spends beyond the Manhattan
// distance between its endpoints. It is zero for anything but PathFound.
func Detour(result PathResult) int {
	if result.Outcome != PathFound {
		return 0
	}
	return len(result.Moves) - ManhattanDistance(result.Start, result.Goal)
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
