// Package session keeps the live Sentry Grid worlds in memory.
//
// Every service.Session owns its own engine, so obstacles added to one world
// are never visible from another. IDs are 4-character lowercase hex strings
// drawn from crypto/rand unless the caller supplies one; lookups ignore case.
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", config)
//	...
//	sess, err = manager.Touch(id) // lookup that counts as activity
//
// Nothing is persisted. The server calls CleanupExpiredSessions on a timer to
// drop worlds that have not been touched within the retention window.
package session
