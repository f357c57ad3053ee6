package bandhu

import "github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"

// Sentinel errors re-exported from the types subpackage.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrStoreRequired is returned when the record store is nil.
	ErrStoreRequired = types.ErrStoreRequired

	// ErrValidation indicates malformed input or a record not in the state an
	// operation requires.
	ErrValidation = types.ErrValidation

	// ErrNotPrivileged is returned when the actor fails the permission check
	// for a bulk operation.
	ErrNotPrivileged = types.ErrNotPrivileged

	// ErrInvalidTransition is returned when a status change violates the
	// request or assignment state machine.
	ErrInvalidTransition = types.ErrInvalidTransition

	// ErrAlreadyApplied is returned by mutation application when the target
	// already holds the desired terminal state.
	ErrAlreadyApplied = types.ErrAlreadyApplied

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = types.ErrNotFound
)
