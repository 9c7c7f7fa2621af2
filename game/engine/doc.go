// Package engine provides the core world logic for Sentry Grid.
//
// The engine package implements:
//   - The closed set of obstacle variants and their blocking predicate
//   - An append-only obstacle registry
//   - Safe-direction queries around a cell
//   - Shortest safe path search over the unbounded grid
//   - Map rendering for a rectangular window
//   - World configuration loading and validation
//
// Core Types:
//
// Obstacle is a sealed interface implemented by Guard, Fence, Sensor, Camera
// and LaserBarrier. IsBlocked and Symbol are the only places that switch over
// the variants. Registry holds obstacles in insertion order. The Engine
// interface, implemented by GridEngine, wraps one registry per world.
//
// Usage:
//
//	eng := engine.NewEmptyEngine("scratch")
//
//	if _, err := eng.AddObstacle(engine.ObstacleSpec{
//		Kind:     "guard",
//		Location: engine.Position{X: 1, Y: 0},
//	}); err != nil {
//		log.Fatal(err)
//	}
//
//	report := eng.SafeDirections(engine.Position{X: 0, Y: 0})
//	result := eng.FindPath(ctx, engine.Position{X: 0, Y: 0}, engine.Position{X: 2, Y: 0})
//	view := eng.RenderMap(engine.Position{X: -1, Y: -1}, engine.Position{X: 3, Y: 1})
//
// Grid Rules:
//
// The grid has no bounds. North decreases Y and East increases X. A cell is
// blocked when any obstacle's predicate matches it; obstacles are never
// merged, removed or changed once added.
package engine
