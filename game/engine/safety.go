package engine

// SafeDirections reports whether p is compromised and, if not, which
// neighbouring cells are free of every obstacle in the registry.
func (r *Registry) SafeDirections(p Position) SafetyReport {
	if entry, blocked := r.FirstBlocking(p); blocked {
		return SafetyReport{
			Position:  p,
			Blocked:   true,
			BlockedBy: entry.ID,
			Safe:      []Direction{},
		}
	}

	obstacles := r.snapshot()
	return SafetyReport{
		Position: p,
		Safe:     safeNeighbours(obstacles, p),
	}
}

// safeDirectionsIn is the snapshot form used by the path search. It returns
// nil for a blocked cell so the search never expands from one.
func safeDirectionsIn(obstacles []Obstacle, p Position) []Direction {
	if blockedIn(obstacles, p) {
		return nil
	}
	return safeNeighbours(obstacles, p)
}

func safeNeighbours(obstacles []Obstacle, p Position) []Direction {
	safe := make([]Direction, 0, len(Directions))
	for _, d := range Directions {
		if !blockedIn(obstacles, p.Step(d)) {
			safe = append(safe, d)
		}
	}
	return safe
}
