package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry is an insertion-ordered, append-only collection of obstacles.
// Appends take the write lock; queries iterate under the read lock.
type Registry struct {
	entries []Placed
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends an obstacle and returns its registry entry
func (r *Registry) Add(o Obstacle) Placed {
	entry := Placed{
		ID:       uuid.NewString(),
		Obstacle: o,
		Kind:     o.Kind(),
		Spec:     SpecOf(o),
		Symbol:   string(Symbol(o)),
		AddedAt:  time.Now(),
	}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()

	return entry
}

// All returns a copy of every entry in insertion order
func (r *Registry) All() []Placed {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Placed, len(r.entries))
	copy(result, r.entries)
	return result
}

// Len returns the number of obstacles
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// FirstBlocking returns the earliest-inserted obstacle blocking p
func (r *Registry) FirstBlocking(p Position) (Placed, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.entries {
		if IsBlocked(entry.Obstacle, p) {
			return entry, true
		}
	}
	return Placed{}, false
}

// Blocked reports whether any obstacle blocks p
func (r *Registry) Blocked(p Position) bool {
	_, blocked := r.FirstBlocking(p)
	return blocked
}

// snapshot returns the obstacles for lock-free iteration by long-running queries.
// Entries are never mutated after append, so sharing the values is safe.
func (r *Registry) snapshot() []Obstacle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obstacles := make([]Obstacle, len(r.entries))
	for i, entry := range r.entries {
		obstacles[i] = entry.Obstacle
	}
	return obstacles
}

// blockedIn reports whether any obstacle in a snapshot blocks p
func blockedIn(obstacles []Obstacle, p Position) bool {
	for _, o := range obstacles {
		if IsBlocked(o, p) {
			return true
		}
	}
	return false
}
