package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/internal/kvutil"
	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/internal/logging"
	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// NATS implements types.RecordStore and types.ChangeFeedSource on top of
// NATS JetStream KeyValue buckets.
//
// Each entity table is one bucket; records are stored as JSON keyed by record
// id. Conditional status writes use revision-guarded updates: the record is
// read, its status checked against the expected value, and the update is
// committed only if the entry revision is unchanged. A revision conflict is
// reported as a lost race (false, nil), never as an error.
//
// All methods are safe for concurrent use.
type NATS struct {
	requests    jetstream.KeyValue
	responders  jetstream.KeyValue
	assignments jetstream.KeyValue

	logger types.Logger
}

var (
	_ types.RecordStore      = (*NATS)(nil)
	_ types.ChangeFeedSource = (*NATS)(nil)
)

// NewNATS creates a NATS-backed record store, ensuring the entity buckets
// exist.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - nc: NATS connection with JetStream enabled
//   - cfg: Bucket configuration (zero value selects defaults)
//   - logger: Logger; nil selects the default slog logger
//
// Returns:
//   - *NATS: The store instance
//   - error: Bucket creation/open failure
func NewNATS(ctx context.Context, nc *nats.Conn, cfg Config, logger types.Logger) (*NATS, error) {
	if nc == nil {
		return nil, errors.New("NATS connection is required")
	}
	if logger == nil {
		logger = logging.NewSlogDefault()
	}
	cfg.setDefaults()

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	s := &NATS{logger: logger}

	buckets := []struct {
		name string
		dst  *jetstream.KeyValue
	}{
		{cfg.RequestsBucket, &s.requests},
		{cfg.RespondersBucket, &s.responders},
		{cfg.AssignmentsBucket, &s.assignments},
	}
	for _, b := range buckets {
		kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{Bucket: b.name}, 3)
		if err != nil {
			return nil, err
		}
		*b.dst = kv
	}

	return s, nil
}

// bucketFor maps a table to its KV bucket.
func (s *NATS) bucketFor(table types.Table) (jetstream.KeyValue, error) {
	switch table {
	case types.TableRequests:
		return s.requests, nil
	case types.TableResponders:
		return s.responders, nil
	case types.TableAssignments:
		return s.assignments, nil
	default:
		return nil, fmt.Errorf("unknown table %q", table)
	}
}

func getRecord[T any](ctx context.Context, kv jetstream.KeyValue, id string) (*T, error) {
	entry, err := kv.Get(ctx, id)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%s: %w", id, types.ErrNotFound)
		}

		return nil, fmt.Errorf("failed to get record %s: %w", id, err)
	}

	var rec T
	if err := json.Unmarshal(entry.Value(), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", id, err)
	}

	return &rec, nil
}

func putRecord(ctx context.Context, kv jetstream.KeyValue, id string, rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", id, err)
	}
	if _, err := kv.Put(ctx, id, data); err != nil {
		return fmt.Errorf("failed to put record %s: %w", id, err)
	}

	return nil
}

func listRecords[T any](ctx context.Context, kv jetstream.KeyValue, logger types.Logger) ([]*T, error) {
	keys, err := kv.Keys(ctx)
	if err != nil {
		if types.IsNoKeysFoundError(err) {
			return []*T{}, nil
		}

		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	records := make([]*T, 0, len(keys))
	for _, key := range keys {
		rec, err := getRecord[T](ctx, kv, key)
		if err != nil {
			if errors.Is(err, types.ErrNotFound) {
				// Deleted between Keys() and Get(); skip.
				continue
			}
			logger.Debug("skipping unreadable record", "key", key, "error", err)

			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// GetRequest returns the request with the given id.
func (s *NATS) GetRequest(ctx context.Context, id string) (*types.Request, error) {
	return getRecord[types.Request](ctx, s.requests, id)
}

// PutRequest creates or replaces a request record.
func (s *NATS) PutRequest(ctx context.Context, req *types.Request) error {
	return putRecord(ctx, s.requests, req.ID, req)
}

// ListRequests returns all request records.
func (s *NATS) ListRequests(ctx context.Context) ([]*types.Request, error) {
	return listRecords[types.Request](ctx, s.requests, s.logger)
}

// CompareAndSetRequestStatus atomically transitions a request's status.
//
// The write commits only if the record's status still equals expected and the
// KV entry revision is unchanged since the read. Losing either check returns
// (false, nil); the caller reports the lost race, not a transport failure.
func (s *NATS) CompareAndSetRequestStatus(ctx context.Context, id string, expected, next types.RequestStatus) (bool, error) {
	entry, err := s.requests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return false, fmt.Errorf("request %s: %w", id, types.ErrNotFound)
		}

		return false, fmt.Errorf("failed to get request %s: %w", id, err)
	}

	var req types.Request
	if err := json.Unmarshal(entry.Value(), &req); err != nil {
		return false, fmt.Errorf("failed to decode request %s: %w", id, err)
	}
	if req.Status != expected {
		return false, nil
	}

	req.Status = next
	data, err := json.Marshal(&req)
	if err != nil {
		return false, fmt.Errorf("failed to encode request %s: %w", id, err)
	}

	if _, err := s.requests.Update(ctx, id, data, entry.Revision()); err != nil {
		if types.IsWrongLastSequenceError(err) {
			s.logger.Debug("request status CAS lost race", "request_id", id, "expected", expected, "next", next)
			return false, nil
		}

		return false, fmt.Errorf("failed conditional update of request %s: %w", id, err)
	}

	return true, nil
}

// GetResponder returns the responder with the given id.
func (s *NATS) GetResponder(ctx context.Context, id string) (*types.Responder, error) {
	return getRecord[types.Responder](ctx, s.responders, id)
}

// PutResponder creates or replaces a responder record.
func (s *NATS) PutResponder(ctx context.Context, r *types.Responder) error {
	return putRecord(ctx, s.responders, r.ID, r)
}

// ListResponders returns all responder records.
func (s *NATS) ListResponders(ctx context.Context) ([]*types.Responder, error) {
	return listRecords[types.Responder](ctx, s.responders, s.logger)
}

// GetAssignment returns the assignment with the given id.
func (s *NATS) GetAssignment(ctx context.Context, id string) (*types.Assignment, error) {
	return getRecord[types.Assignment](ctx, s.assignments, id)
}

// PutAssignment creates or replaces an assignment record.
func (s *NATS) PutAssignment(ctx context.Context, a *types.Assignment) error {
	return putRecord(ctx, s.assignments, a.ID, a)
}

// ListAssignments returns all assignment records.
func (s *NATS) ListAssignments(ctx context.Context) ([]*types.Assignment, error) {
	return listRecords[types.Assignment](ctx, s.assignments, s.logger)
}

// CompareAndSetAssignmentStatus atomically transitions an assignment's status
// with the same semantics as CompareAndSetRequestStatus.
func (s *NATS) CompareAndSetAssignmentStatus(ctx context.Context, id string, expected, next types.AssignmentStatus) (bool, error) {
	entry, err := s.assignments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return false, fmt.Errorf("assignment %s: %w", id, types.ErrNotFound)
		}

		return false, fmt.Errorf("failed to get assignment %s: %w", id, err)
	}

	var asgn types.Assignment
	if err := json.Unmarshal(entry.Value(), &asgn); err != nil {
		return false, fmt.Errorf("failed to decode assignment %s: %w", id, err)
	}
	if asgn.Status != expected {
		return false, nil
	}

	asgn.Status = next
	data, err := json.Marshal(&asgn)
	if err != nil {
		return false, fmt.Errorf("failed to encode assignment %s: %w", id, err)
	}

	if _, err := s.assignments.Update(ctx, id, data, entry.Revision()); err != nil {
		if types.IsWrongLastSequenceError(err) {
			s.logger.Debug("assignment status CAS lost race", "assignment_id", id, "expected", expected, "next", next)
			return false, nil
		}

		return false, fmt.Errorf("failed conditional update of assignment %s: %w", id, err)
	}

	return true, nil
}

// Watch opens a change feed on the given table, backed by a KV watcher.
//
// Events are delivered from the point of subscription onward; existing
// records are not replayed. Put operations are classified as insert or update
// by tracking the last value seen per key inside the feed.
func (s *NATS) Watch(ctx context.Context, table types.Table) (types.ChangeFeed, error) {
	kv, err := s.bucketFor(table)
	if err != nil {
		return nil, err
	}

	watcher, err := kv.WatchAll(ctx, jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to watch table %s: %w", table, err)
	}

	feed := &natsFeed{
		table:   table,
		watcher: watcher,
		events:  make(chan types.ChangeEvent, feedBuffer),
		done:    make(chan struct{}),
		logger:  s.logger,
	}
	go feed.pump()

	return feed, nil
}

// feedBuffer sizes the feed event channel. A slow subscriber stalls the pump
// rather than dropping events.
const feedBuffer = 64

// natsFeed adapts a jetstream.KeyWatcher into a types.ChangeFeed.
type natsFeed struct {
	table   types.Table
	watcher jetstream.KeyWatcher
	events  chan types.ChangeEvent
	done    chan struct{}
	once    sync.Once
	logger  types.Logger
}

// Events returns the channel change events are delivered on.
func (f *natsFeed) Events() <-chan types.ChangeEvent { return f.events }

// Stop terminates the feed. Safe to call multiple times.
func (f *natsFeed) Stop() error {
	var err error
	f.once.Do(func() {
		close(f.done)
		err = f.watcher.Stop()
	})

	return err
}

// pump translates watcher entries into change events until stopped.
func (f *natsFeed) pump() {
	defer close(f.events)

	// Last value seen per key, to distinguish inserts from updates and to
	// carry the old row on updates and deletes.
	lastSeen := make(map[string][]byte)

	for {
		select {
		case <-f.done:
			return
		case entry, ok := <-f.watcher.Updates():
			if !ok {
				return
			}
			if entry == nil {
				// End-of-initial-values marker; nothing to deliver.
				continue
			}

			event := types.ChangeEvent{Table: f.table, Key: entry.Key()}
			switch entry.Operation() {
			case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
				event.Type = types.EventDelete
				event.Old = lastSeen[entry.Key()]
				delete(lastSeen, entry.Key())
			default:
				value := entry.Value()
				if old, seen := lastSeen[entry.Key()]; seen {
					event.Type = types.EventUpdate
					event.Old = old
				} else {
					event.Type = types.EventInsert
				}
				event.New = value
				lastSeen[entry.Key()] = value
			}

			select {
			case f.events <- event:
			case <-f.done:
				return
			}
		}
	}
}
