package types

// ErrorKind classifies an assignment failure in a structured result.
//
// Expected, recoverable outcomes (below-threshold, no candidates, lost commit
// race) are reported through ErrorKind rather than as Go errors so callers can
// branch on them and offer a manual fallback.
type ErrorKind string

const (
	// ErrorKindValidation indicates malformed input or a record not in the
	// state the operation requires (e.g. request not pending).
	ErrorKindValidation ErrorKind = "validation"

	// ErrorKindBelowThreshold indicates the match score was below minScore.
	ErrorKindBelowThreshold ErrorKind = "below_threshold"

	// ErrorKindNoCandidates indicates no eligible responder was found.
	ErrorKindNoCandidates ErrorKind = "no_candidates"

	// ErrorKindCapacityExceeded indicates the responder is at its cap and the
	// override flag was not set.
	ErrorKindCapacityExceeded ErrorKind = "capacity_exceeded"

	// ErrorKindAlreadyAssigned indicates the conditional write lost a commit
	// race: another caller assigned the request first.
	ErrorKindAlreadyAssigned ErrorKind = "already_assigned"

	// ErrorKindTransport indicates the store or feed was unreachable.
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindReplay indicates a queued mutation failed during replay.
	ErrorKindReplay ErrorKind = "replay"
)

// AssignResult is the structured outcome of a single assignment attempt.
type AssignResult struct {
	Success      bool      `json:"success"`
	AssignmentID string    `json:"assignment_id,omitempty"`
	MatchScore   float64   `json:"match_score,omitempty"`
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
	Message      string    `json:"message"`
}

// BatchResult is the per-request outcome of a batch assignment pass.
type BatchResult struct {
	RequestID   string  `json:"request_id"`
	Success     bool    `json:"success"`
	ResponderID string  `json:"responder_id,omitempty"`
	MatchScore  float64 `json:"match_score,omitempty"`
	Message     string  `json:"message"`
}

// BulkResult summarizes a bulk terminal-state transition.
type BulkResult struct {
	UpdatedCount int      `json:"updated_count"`
	UpdatedIDs   []string `json:"updated_ids"`
}

// FilterKind selects the request field a bulk completion filter matches on.
type FilterKind string

const (
	// FilterByType matches requests by their type.
	FilterByType FilterKind = "type"

	// FilterByPriority matches requests by their priority.
	FilterByPriority FilterKind = "priority"
)
