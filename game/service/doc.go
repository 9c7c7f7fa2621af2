// Package service provides the business logic layer for Sentry Grid.
//
// The service package implements:
//   - Multi-session world management
//   - Obstacle placement against a session's registry
//   - Safe-direction, path and map queries
//   - Configuration listing and loading
//
// Core Interfaces:
//
// WorldService is the main service interface used by every transport.
// SessionManager creates, touches, lists and deletes sessions.
// ConfigManager manages world configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the engine. Each session owns its own engine and obstacle registry.
// Obstacle additions take the service write lock; queries share the read lock,
// so a query never observes a half-added obstacle.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	worldService := service.NewWorldService(sessionMgr, configMgr)
//
//	info, err := worldService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := worldService.FindPath(ctx, info.ID,
//		engine.Position{X: 0, Y: 0}, engine.Position{X: 9, Y: 4})
//
// Events:
//
// Every mutation and query returns WorldEvent values that the API layer
// broadcasts to WebSocket subscribers of the session.
package service
