package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// Memory implements types.RecordStore and types.ChangeFeedSource in process.
//
// It mirrors the semantics of the NATS store: conditional status writes are
// atomic under an internal mutex, and every mutation is published to any open
// change feeds for the affected table. Intended for tests, examples, and
// offline-capable callers.
type Memory struct {
	mu          sync.RWMutex
	requests    map[string][]byte
	responders  map[string][]byte
	assignments map[string][]byte

	feedMu sync.Mutex
	feeds  map[types.Table][]*memoryFeed
}

var (
	_ types.RecordStore      = (*Memory)(nil)
	_ types.ChangeFeedSource = (*Memory)(nil)
)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		requests:    make(map[string][]byte),
		responders:  make(map[string][]byte),
		assignments: make(map[string][]byte),
		feeds:       make(map[types.Table][]*memoryFeed),
	}
}

func (s *Memory) tableFor(table types.Table) map[string][]byte {
	switch table {
	case types.TableRequests:
		return s.requests
	case types.TableResponders:
		return s.responders
	default:
		return s.assignments
	}
}

func (s *Memory) put(table types.Table, id string, rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record %s: %w", id, err)
	}

	s.mu.Lock()
	rows := s.tableFor(table)
	old, existed := rows[id]
	rows[id] = data
	s.mu.Unlock()

	event := types.ChangeEvent{Table: table, Type: types.EventInsert, Key: id, New: data}
	if existed {
		event.Type = types.EventUpdate
		event.Old = old
	}
	s.publish(event)

	return nil
}

func get[T any](s *Memory, table types.Table, id string) (*T, error) {
	s.mu.RLock()
	data, ok := s.tableFor(table)[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", id, types.ErrNotFound)
	}

	var rec T
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", id, err)
	}

	return &rec, nil
}

func list[T any](s *Memory, table types.Table) ([]*T, error) {
	s.mu.RLock()
	rows := s.tableFor(table)
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]*T, 0, len(keys))
	for _, k := range keys {
		var rec T
		if err := json.Unmarshal(rows[k], &rec); err != nil {
			s.mu.RUnlock()
			return nil, fmt.Errorf("failed to decode record %s: %w", k, err)
		}
		records = append(records, &rec)
	}
	s.mu.RUnlock()

	return records, nil
}

// GetRequest returns the request with the given id.
func (s *Memory) GetRequest(_ context.Context, id string) (*types.Request, error) {
	return get[types.Request](s, types.TableRequests, id)
}

// PutRequest creates or replaces a request record.
func (s *Memory) PutRequest(_ context.Context, req *types.Request) error {
	return s.put(types.TableRequests, req.ID, req)
}

// ListRequests returns all request records, ordered by id.
func (s *Memory) ListRequests(_ context.Context) ([]*types.Request, error) {
	return list[types.Request](s, types.TableRequests)
}

// CompareAndSetRequestStatus atomically transitions a request's status.
func (s *Memory) CompareAndSetRequestStatus(_ context.Context, id string, expected, next types.RequestStatus) (bool, error) {
	s.mu.Lock()
	data, ok := s.requests[id]
	if !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("request %s: %w", id, types.ErrNotFound)
	}

	var req types.Request
	if err := json.Unmarshal(data, &req); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("failed to decode request %s: %w", id, err)
	}
	if req.Status != expected {
		s.mu.Unlock()
		return false, nil
	}

	req.Status = next
	updated, err := json.Marshal(&req)
	if err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("failed to encode request %s: %w", id, err)
	}
	s.requests[id] = updated
	s.mu.Unlock()

	s.publish(types.ChangeEvent{
		Table: types.TableRequests, Type: types.EventUpdate, Key: id, Old: data, New: updated,
	})

	return true, nil
}

// GetResponder returns the responder with the given id.
func (s *Memory) GetResponder(_ context.Context, id string) (*types.Responder, error) {
	return get[types.Responder](s, types.TableResponders, id)
}

// PutResponder creates or replaces a responder record.
func (s *Memory) PutResponder(_ context.Context, r *types.Responder) error {
	return s.put(types.TableResponders, r.ID, r)
}

// ListResponders returns all responder records, ordered by id.
func (s *Memory) ListResponders(_ context.Context) ([]*types.Responder, error) {
	return list[types.Responder](s, types.TableResponders)
}

// GetAssignment returns the assignment with the given id.
func (s *Memory) GetAssignment(_ context.Context, id string) (*types.Assignment, error) {
	return get[types.Assignment](s, types.TableAssignments, id)
}

// PutAssignment creates or replaces an assignment record.
func (s *Memory) PutAssignment(_ context.Context, a *types.Assignment) error {
	return s.put(types.TableAssignments, a.ID, a)
}

// ListAssignments returns all assignment records, ordered by id.
func (s *Memory) ListAssignments(_ context.Context) ([]*types.Assignment, error) {
	return list[types.Assignment](s, types.TableAssignments)
}

// CompareAndSetAssignmentStatus atomically transitions an assignment's status.
func (s *Memory) CompareAndSetAssignmentStatus(_ context.Context, id string, expected, next types.AssignmentStatus) (bool, error) {
	s.mu.Lock()
	data, ok := s.assignments[id]
	if !ok {
		s.mu.Unlock()
		return false, fmt.Errorf("assignment %s: %w", id, types.ErrNotFound)
	}

	var asgn types.Assignment
	if err := json.Unmarshal(data, &asgn); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("failed to decode assignment %s: %w", id, err)
	}
	if asgn.Status != expected {
		s.mu.Unlock()
		return false, nil
	}

	asgn.Status = next
	updated, err := json.Marshal(&asgn)
	if err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("failed to encode assignment %s: %w", id, err)
	}
	s.assignments[id] = updated
	s.mu.Unlock()

	s.publish(types.ChangeEvent{
		Table: types.TableAssignments, Type: types.EventUpdate, Key: id, Old: data, New: updated,
	})

	return true, nil
}

// Watch opens a change feed on the given table.
func (s *Memory) Watch(_ context.Context, table types.Table) (types.ChangeFeed, error) {
	feed := &memoryFeed{
		store:  s,
		table:  table,
		events: make(chan types.ChangeEvent, feedBuffer),
		done:   make(chan struct{}),
	}

	s.feedMu.Lock()
	s.feeds[table] = append(s.feeds[table], feed)
	s.feedMu.Unlock()

	return feed, nil
}

// publish delivers an event to every open feed on the affected table.
//
// Each in-flight delivery is registered under feedMu before the send starts,
// so Stop can deregister the feed, signal done, and wait out the senders
// before closing the event channel.
func (s *Memory) publish(event types.ChangeEvent) {
	s.feedMu.Lock()
	feeds := make([]*memoryFeed, len(s.feeds[event.Table]))
	copy(feeds, s.feeds[event.Table])
	for _, f := range feeds {
		f.sending.Add(1)
	}
	s.feedMu.Unlock()

	for _, f := range feeds {
		f.deliver(event)
	}
}

// memoryFeed is an in-process change feed.
type memoryFeed struct {
	store   *Memory
	table   types.Table
	events  chan types.ChangeEvent
	done    chan struct{}
	sending sync.WaitGroup
	once    sync.Once
}

// Events returns the channel change events are delivered on.
func (f *memoryFeed) Events() <-chan types.ChangeEvent { return f.events }

// Stop removes the feed from the store, releases any publisher blocked on the
// feed's buffer, and closes the event channel once the senders have drained.
func (f *memoryFeed) Stop() error {
	f.once.Do(func() {
		f.store.feedMu.Lock()
		feeds := f.store.feeds[f.table]
		for i, other := range feeds {
			if other == f {
				f.store.feeds[f.table] = append(feeds[:i], feeds[i+1:]...)

				break
			}
		}
		f.store.feedMu.Unlock()

		close(f.done)
		f.sending.Wait()
		close(f.events)
	})

	return nil
}

// deliver sends the event unless the feed was stopped. Delivery blocks when
// the buffer is full, matching the NATS feed's no-drop behavior, but never
// past Stop: a stopped feed abandons the send instead of wedging the writer.
func (f *memoryFeed) deliver(event types.ChangeEvent) {
	defer f.sending.Done()

	select {
	case <-f.done:
	case f.events <- event:
	}
}
