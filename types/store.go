package types

import "context"

// Table identifies an entity table at the storage boundary.
type Table string

const (
	// TableRequests holds Request records.
	TableRequests Table = "requests"

	// TableResponders holds Responder records.
	TableResponders Table = "responders"

	// TableAssignments holds Assignment records.
	TableAssignments Table = "assignments"
)

// EventType classifies a row-level change event.
type EventType string

const (
	// EventInsert indicates a new row was created.
	EventInsert EventType = "insert"

	// EventUpdate indicates an existing row was modified.
	EventUpdate EventType = "update"

	// EventDelete indicates a row was removed.
	EventDelete EventType = "delete"
)

// ChangeEvent is a single row-level change delivered by a change feed.
//
// Old and New carry the raw JSON encodings of the row before and after the
// change; either may be nil depending on the event type (inserts have no Old,
// deletes have no New).
type ChangeEvent struct {
	Table Table     `json:"table"`
	Type  EventType `json:"type"`
	Key   string    `json:"key"`
	Old   []byte    `json:"old,omitempty"`
	New   []byte    `json:"new,omitempty"`
}

// ChangeFeed is an open subscription to row-level changes on one table.
//
// The Events channel is closed when the feed stops, either via Stop or when
// the context passed to Watch is cancelled.
type ChangeFeed interface {
	// Events returns the channel change events are delivered on.
	Events() <-chan ChangeEvent

	// Stop terminates the feed and closes the events channel.
	Stop() error
}

// ChangeFeedSource opens change feeds on entity tables.
//
// Implemented by the record store; consumed by the status sync service.
type ChangeFeedSource interface {
	// Watch opens a change feed for the given table. Events produced before
	// Watch returns are not replayed; the feed delivers changes from the
	// point of subscription onward.
	Watch(ctx context.Context, table Table) (ChangeFeed, error)
}

// RecordStore is the storage boundary for the coordination core.
//
// The store must provide atomic conditional writes on record status: the
// CompareAndSet methods succeed only if the record's status still equals the
// expected value at write time. This is the sole race-prevention mechanism in
// the system; no component holds client-side locks across store calls.
//
// Missing records are reported with ErrNotFound. All other failures are
// treated as transport errors by callers.
type RecordStore interface {
	// GetRequest returns the request with the given id.
	GetRequest(ctx context.Context, id string) (*Request, error)

	// PutRequest creates or replaces a request record.
	PutRequest(ctx context.Context, req *Request) error

	// ListRequests returns all request records.
	ListRequests(ctx context.Context) ([]*Request, error)

	// CompareAndSetRequestStatus atomically transitions the request's status
	// from expected to next. It returns false with a nil error when the
	// precondition no longer holds (another writer got there first).
	CompareAndSetRequestStatus(ctx context.Context, id string, expected, next RequestStatus) (bool, error)

	// GetResponder returns the responder with the given id.
	GetResponder(ctx context.Context, id string) (*Responder, error)

	// PutResponder creates or replaces a responder record.
	PutResponder(ctx context.Context, r *Responder) error

	// ListResponders returns all responder records.
	ListResponders(ctx context.Context) ([]*Responder, error)

	// GetAssignment returns the assignment with the given id.
	GetAssignment(ctx context.Context, id string) (*Assignment, error)

	// PutAssignment creates or replaces an assignment record.
	PutAssignment(ctx context.Context, a *Assignment) error

	// ListAssignments returns all assignment records.
	ListAssignments(ctx context.Context) ([]*Assignment, error)

	// CompareAndSetAssignmentStatus atomically transitions the assignment's
	// status from expected to next, with the same semantics as
	// CompareAndSetRequestStatus.
	CompareAndSetAssignmentStatus(ctx context.Context, id string, expected, next AssignmentStatus) (bool, error)
}
