package types

import (
	"errors"
	"strings"
)

// Sentinel errors for the coordination core.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). Components use these sentinels for known conditions and wrap
// external errors with context using fmt.Errorf("%s: %w", msg, err).

// Coordinator errors - Public API errors returned by the Coordinator.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStoreRequired is returned when the record store is nil.
	ErrStoreRequired = errors.New("record store is required")

	// ErrValidation indicates malformed input or a record not in the state an
	// operation requires.
	ErrValidation = errors.New("validation failed")

	// ErrBelowThreshold indicates the match score was below the minimum.
	ErrBelowThreshold = errors.New("match score below threshold")

	// ErrNoCandidates indicates no eligible responder exists for a request.
	ErrNoCandidates = errors.New("no eligible responders")

	// ErrCapacityExceeded indicates the responder is at its concurrency cap.
	ErrCapacityExceeded = errors.New("responder at capacity")

	// ErrAlreadyAssigned indicates the conditional write lost a commit race.
	ErrAlreadyAssigned = errors.New("request already assigned")

	// ErrNotPrivileged is returned when the actor fails the permission check
	// for a bulk operation.
	ErrNotPrivileged = errors.New("actor not privileged for bulk operations")

	// ErrInvalidTransition is returned when a status change violates the
	// request or assignment state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyApplied is returned by mutation application when the target
	// already holds the desired terminal state. Replay treats it as success.
	ErrAlreadyApplied = errors.New("mutation already applied")
)

// Store errors - Returned by RecordStore implementations.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrTransport indicates the store or feed was unreachable.
	ErrTransport = errors.New("transport failure")
)

// Sync errors - Returned by the status sync service.
var (
	// ErrSyncClosed is returned when operating on a cleaned-up sync service.
	ErrSyncClosed = errors.New("sync service closed")

	// ErrFeedSourceRequired is returned when the change feed source is nil.
	ErrFeedSourceRequired = errors.New("change feed source is required")

	// ErrApplierRequired is returned when the mutation applier is nil.
	ErrApplierRequired = errors.New("mutation applier is required")

	// ErrReplay indicates a queued mutation failed during replay and was
	// re-queued for retry.
	ErrReplay = errors.New("queued mutation replay failed")
)

// IsWrongLastSequenceError checks if an error indicates a NATS KV revision
// conflict on a guarded update.
//
// This condition surfaces when a conditional write loses a race: the record
// was modified between the read and the revision-guarded update. The error
// may arrive directly or wrapped, so the check falls back to the NATS error
// message.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if the error is a revision conflict, false otherwise
func IsWrongLastSequenceError(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), "wrong last sequence")
}

// IsNoKeysFoundError checks if an error indicates that a NATS KV bucket holds
// no keys, which is an expected condition for empty tables.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if the error indicates no keys were found, false otherwise
func IsNoKeysFoundError(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), "no keys found")
}
