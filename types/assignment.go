package types

import "time"

// AssignmentStatus represents the lifecycle state of an assignment.
//
// Normal progression:
//
//	AssignmentPending → AssignmentAccepted → AssignmentInProgress → AssignmentCompleted
//
// AssignmentCancelled is reachable from any non-terminal state.
type AssignmentStatus string

const (
	// AssignmentPending indicates the assignment awaits responder acceptance.
	AssignmentPending AssignmentStatus = "pending"

	// AssignmentAccepted indicates the responder accepted the assignment.
	AssignmentAccepted AssignmentStatus = "accepted"

	// AssignmentInProgress indicates work is underway.
	AssignmentInProgress AssignmentStatus = "in_progress"

	// AssignmentCompleted indicates the assignment finished. Terminal.
	AssignmentCompleted AssignmentStatus = "completed"

	// AssignmentCancelled indicates the assignment was cancelled. Terminal.
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// Terminal reports whether the status is a terminal state.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentCompleted || s == AssignmentCancelled
}

// CanTransition reports whether a transition from s to next is valid.
func (s AssignmentStatus) CanTransition(next AssignmentStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case AssignmentAccepted:
		return s == AssignmentPending
	case AssignmentInProgress:
		return s == AssignmentAccepted
	case AssignmentCompleted, AssignmentCancelled:
		return true
	default:
		return false
	}
}

// Assignment binds one request to one responder.
//
// Assignments are created only by the coordinator. At most one active
// (non-terminal) assignment exists per request; the coordinator enforces this
// through the request-status conditional write, not through assignment rows.
type Assignment struct {
	ID          string           `json:"id"`
	RequestID   string           `json:"request_id"`
	ResponderID string           `json:"responder_id"`
	Status      AssignmentStatus `json:"status"`
	MatchScore  float64          `json:"match_score"`
	AssignedAt  time.Time        `json:"assigned_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// Active reports whether the assignment is in a non-terminal state.
func (a *Assignment) Active() bool { return !a.Status.Terminal() }

// MatchCandidate is the transient scoring breakdown for one responder against
// one request. Candidates are produced per scoring call and never persisted.
type MatchCandidate struct {
	ResponderID   string  `json:"responder_id"`
	ResponderName string  `json:"responder_name"`
	SkillMatch    float64 `json:"skill_match"`
	PriorityScore float64 `json:"priority_score"`
	MatchScore    float64 `json:"match_score"`
}
