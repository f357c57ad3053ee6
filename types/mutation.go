package types

import (
	"context"
	"time"
)

// MutationKind identifies the kind of status mutation a queued intent applies.
type MutationKind string

const (
	// MutationRequestStatus sets a request's status.
	MutationRequestStatus MutationKind = "request_status"

	// MutationAssignmentStatus sets an assignment's status.
	MutationAssignmentStatus MutationKind = "assignment_status"

	// MutationResponderAvailability sets a responder's availability.
	MutationResponderAvailability MutationKind = "responder_availability"
)

// Mutation is an outbound mutation intent.
//
// While the sync service is offline, mutations are queued locally with their
// enqueue timestamp instead of being applied. On reconnect the queue is
// replayed strictly in FIFO order with at-least-once delivery.
type Mutation struct {
	ID       string       `json:"id"`
	Kind     MutationKind `json:"kind"`
	TargetID string       `json:"target_id"`
	Value    string       `json:"value"`
	QueuedAt time.Time    `json:"queued_at"`
}

// MutationApplier applies a mutation intent against the authoritative store.
//
// Implementations must be idempotent by target: applying a mutation whose
// target already holds the desired terminal state returns ErrAlreadyApplied,
// which replay treats as success rather than failure.
type MutationApplier interface {
	// ApplyMutation applies a single mutation intent.
	ApplyMutation(ctx context.Context, m Mutation) error
}

// RefreshSignal is the out-of-band reconcile instruction broadcast to all
// connected sessions after a bulk mutation.
type RefreshSignal struct {
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// Broadcaster emits refresh signals to all connected sessions.
//
// Implemented by the status sync service; consumed by the coordinator after
// bulk operations so staleness is bounded by one round trip instead of N
// per-row change events.
type Broadcaster interface {
	// BroadcastRefresh tells every connected session to reconcile now.
	BroadcastRefresh(ctx context.Context, reason string) error
}
