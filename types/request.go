package types

import "time"

// RequestType categorizes an assistance request. The type drives the
// required-skill lookup during matching.
type RequestType string

// Known request types. Unknown values are valid and fall back to a generic
// required-skill set during scoring.
const (
	RequestTypeMedical        RequestType = "medical"
	RequestTypeFood           RequestType = "food"
	RequestTypeShelter        RequestType = "shelter"
	RequestTypeTransportation RequestType = "transportation"
	RequestTypeRescue         RequestType = "rescue"
	RequestTypeSanitation     RequestType = "sanitation"
	RequestTypeGeneral        RequestType = "general"
)

// Priority expresses the urgency of a request.
type Priority string

// Priority levels, from least to most urgent.
const (
	PriorityLow       Priority = "low"
	PriorityMedium    Priority = "medium"
	PriorityHigh      Priority = "high"
	PriorityEmergency Priority = "emergency"
)

// Rank returns the ordering weight of the priority for batch processing.
// Higher rank is processed first: emergency > high > medium > low.
// Unknown priorities rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityEmergency:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// RequestStatus represents the lifecycle state of a request.
//
// Normal progression:
//
//	StatusPending → StatusAssigned → StatusInProgress → StatusCompleted
//
// StatusCancelled is reachable from any non-terminal state. Completed and
// cancelled are terminal; records in a terminal state are immutable.
type RequestStatus string

const (
	// StatusPending indicates the request has no active assignment.
	StatusPending RequestStatus = "pending"

	// StatusAssigned indicates an assignment has been committed.
	StatusAssigned RequestStatus = "assigned"

	// StatusInProgress indicates the assigned responder is actively helping.
	StatusInProgress RequestStatus = "in_progress"

	// StatusCompleted indicates the request was fulfilled. Terminal.
	StatusCompleted RequestStatus = "completed"

	// StatusCancelled indicates the request was withdrawn. Terminal.
	StatusCancelled RequestStatus = "cancelled"
)

// Terminal reports whether the status is a terminal state.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether a transition from s to next is valid.
//
// Valid transitions:
//   - pending → assigned
//   - assigned → in_progress
//   - in_progress → completed
//   - any non-terminal → cancelled
//   - any non-terminal → completed (bulk completion sweeps)
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case StatusAssigned:
		return s == StatusPending
	case StatusInProgress:
		return s == StatusAssigned
	case StatusCompleted, StatusCancelled:
		return true
	case StatusPending:
		return false
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s RequestStatus) String() string { return string(s) }

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Request is an assistance request submitted by a requester.
//
// Status is mutated only through the coordinator's conditional-write path or
// by explicit completion/cancellation actions. A request in a terminal state
// is immutable.
type Request struct {
	ID          string        `json:"id"`
	Type        RequestType   `json:"type"`
	Priority    Priority      `json:"priority"`
	Status      RequestStatus `json:"status"`
	RequesterID string        `json:"requester_id"`
	Location    Coordinate    `json:"location"`
	CreatedAt   time.Time     `json:"created_at"`
}
