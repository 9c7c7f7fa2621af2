// Package api provides HTTP REST API handlers for Sentry Grid.
//
// The api package implements:
//   - RESTful endpoints for world operations
//   - Session management endpoints
//   - Configuration listing
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new world ({"config_id": "classic"})
//   - GET /api/sessions - List worlds (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific world
//   - DELETE /api/sessions/{id} - Delete world
//
// Obstacles:
//   - POST /api/sessions/{id}/obstacles - Add obstacle
//   - GET /api/sessions/{id}/obstacles - List obstacles in insertion order
//
// Queries:
//   - GET /api/sessions/{id}/safety?x=&y= - Safe directions from a cell
//   - POST /api/sessions/{id}/path - Shortest path ({"start": {...}, "goal": {...}})
//   - GET /api/sessions/{id}/map?x1=&y1=&x2=&y2= - Render a window (corners optional)
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get a configuration
//
// Live updates (only when the server has a hub):
//   - GET /ws?session={id} - WebSocket event stream
//   - GET /api/sessions/{id}/subscribers - Count of WebSocket subscribers
//   - GET /healthz - Liveness check (always mounted)
//
// Obstacle Requests:
//
//	{"kind": "fence", "location": {"x": 0, "y": 0}, "end": {"x": 0, "y": 5}}
//	{"kind": "sensor", "location": {"x": 4, "y": 4}, "range": 2.5}
//	{"kind": "laser", "location": {"x": 0, "y": 3}, "direction": "E", "duration": 2}
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status code. Unknown sessions and
// configs are 404, invalid obstacles and oversized map windows are 400:
//
//	{"error": "invalid obstacle: sensor range must be a positive number, got 0"}
//
// Successful mutations and queries are also pushed to WebSocket subscribers
// of the session.
package api
