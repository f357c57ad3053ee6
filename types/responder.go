package types

// Availability represents a responder's declared availability.
type Availability string

const (
	// AvailabilityAvailable means the responder accepts new assignments.
	AvailabilityAvailable Availability = "available"

	// AvailabilityBusy means the responder is occupied but reachable.
	// Busy responders can only be assigned through the manual override path.
	AvailabilityBusy Availability = "busy"

	// AvailabilityOffline means the responder cannot be assigned at all.
	AvailabilityOffline Availability = "offline"
)

// DefaultResponderCap is the default concurrent-assignment cap per responder.
const DefaultResponderCap = 3

// Responder is an actor eligible to be matched and assigned to requests.
//
// ActiveAssignmentCount is adjusted by assignment creation and completion;
// Availability is toggled by the responder through an external surface. The
// count never exceeds Cap except via the explicit manual override path.
type Responder struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	Skills                []string     `json:"skills"`
	Availability          Availability `json:"availability"`
	ActiveAssignmentCount int          `json:"active_assignment_count"`
	Cap                   int          `json:"cap"`
}

// EffectiveCap returns the responder's concurrency cap, applying the default
// when the record carries no explicit cap.
func (r *Responder) EffectiveCap() int {
	if r.Cap <= 0 {
		return DefaultResponderCap
	}

	return r.Cap
}

// AtCap reports whether the responder has reached its concurrency cap.
func (r *Responder) AtCap() bool {
	return r.ActiveAssignmentCount >= r.EffectiveCap()
}
