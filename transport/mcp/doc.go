// Package mcp provides the Model Context Protocol interface for Sentry Grid.
//
// The mcp package implements:
//   - An MCP server for AI agent integration
//   - Tool definitions for world building and route queries
//   - A thin client that proxies every tool call to the REST API
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create a new world, optionally from a config
//   - list_sessions: List all active worlds
//   - get_session: Get a world's details and obstacles
//   - add_obstacle: Place a guard, fence, sensor, camera or laser
//   - list_obstacles: List obstacles in insertion order
//   - safe_directions: Open neighbours of a cell
//   - find_path: Shortest safe path between two cells
//   - render_map: Draw a rectangle of the grid
//   - list_configs: List available world configurations
//   - world_instructions: Obstacle rules and map legend
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: The /mcp endpoint mounted by the main server
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
