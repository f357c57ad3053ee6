package types

import "context"

// Authorizer is the permission hook consulted before bulk operations.
//
// Authentication and session management live outside the core; the
// coordinator only asks whether a given actor may run privileged bulk
// transitions such as MarkAllCompleted.
type Authorizer interface {
	// IsPrivileged reports whether the actor may run bulk operations.
	IsPrivileged(ctx context.Context, actorID string) (bool, error)
}
