package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

func TestMemory_RequestCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.GetRequest(ctx, "missing")
	require.ErrorIs(t, err, types.ErrNotFound)

	req := &types.Request{
		ID:       "req-1",
		Type:     types.RequestTypeMedical,
		Priority: types.PriorityHigh,
		Status:   types.StatusPending,
	}
	require.NoError(t, s.PutRequest(ctx, req))

	got, err := s.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	require.Equal(t, req.ID, got.ID)
	require.Equal(t, types.StatusPending, got.Status)

	all, err := s.ListRequests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestMemory_CompareAndSetRequestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds when precondition holds", func(t *testing.T) {
		s := NewMemory()
		require.NoError(t, s.PutRequest(ctx, &types.Request{ID: "req-1", Status: types.StatusPending}))

		ok, err := s.CompareAndSetRequestStatus(ctx, "req-1", types.StatusPending, types.StatusAssigned)
		require.NoError(t, err)
		require.True(t, ok)

		got, err := s.GetRequest(ctx, "req-1")
		require.NoError(t, err)
		require.Equal(t, types.StatusAssigned, got.Status)
	})

	t.Run("fails cleanly when precondition no longer holds", func(t *testing.T) {
		s := NewMemory()
		require.NoError(t, s.PutRequest(ctx, &types.Request{ID: "req-1", Status: types.StatusAssigned}))

		ok, err := s.CompareAndSetRequestStatus(ctx, "req-1", types.StatusPending, types.StatusAssigned)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("only one of two racing writers wins", func(t *testing.T) {
		s := NewMemory()
		require.NoError(t, s.PutRequest(ctx, &types.Request{ID: "req-1", Status: types.StatusPending}))

		results := make(chan bool, 2)
		for i := 0; i < 2; i++ {
			go func() {
				ok, err := s.CompareAndSetRequestStatus(ctx, "req-1", types.StatusPending, types.StatusAssigned)
				require.NoError(t, err)
				results <- ok
			}()
		}

		wins := 0
		for i := 0; i < 2; i++ {
			if <-results {
				wins++
			}
		}
		require.Equal(t, 1, wins)
	})

	t.Run("missing record is an error", func(t *testing.T) {
		s := NewMemory()
		_, err := s.CompareAndSetRequestStatus(ctx, "nope", types.StatusPending, types.StatusAssigned)
		require.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestMemory_AssignmentCAS(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.PutAssignment(ctx, &types.Assignment{ID: "a-1", Status: types.AssignmentPending}))

	ok, err := s.CompareAndSetAssignmentStatus(ctx, "a-1", types.AssignmentPending, types.AssignmentAccepted)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.CompareAndSetAssignmentStatus(ctx, "a-1", types.AssignmentPending, types.AssignmentAccepted)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemory_Watch(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	feed, err := s.Watch(ctx, types.TableRequests)
	require.NoError(t, err)
	defer func() { _ = feed.Stop() }()

	require.NoError(t, s.PutRequest(ctx, &types.Request{ID: "req-1", Status: types.StatusPending}))

	select {
	case ev := <-feed.Events():
		require.Equal(t, types.EventInsert, ev.Type)
		require.Equal(t, "req-1", ev.Key)
		require.Nil(t, ev.Old)
		require.NotNil(t, ev.New)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for insert event")
	}

	require.NoError(t, s.PutRequest(ctx, &types.Request{ID: "req-1", Status: types.StatusPending, RequesterID: "u-1"}))

	select {
	case ev := <-feed.Events():
		require.Equal(t, types.EventUpdate, ev.Type)
		require.NotNil(t, ev.Old)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update event")
	}

	// A stopped feed delivers nothing further and closes its channel.
	require.NoError(t, feed.Stop())
	require.NoError(t, s.PutRequest(ctx, &types.Request{ID: "req-2", Status: types.StatusPending}))

	_, open := <-feed.Events()
	require.False(t, open)
}

func TestMemory_WatchStopUnblocksSlowConsumer(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	feed, err := s.Watch(ctx, types.TableRequests)
	require.NoError(t, err)

	// Fill the feed's buffer and leave one writer blocked on the full
	// channel with nobody reading.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for i := 0; i < feedBuffer+1; i++ {
			_ = s.PutRequest(ctx, &types.Request{
				ID:     fmt.Sprintf("req-%d", i),
				Status: types.StatusPending,
			})
		}
	}()

	require.Eventually(t, func() bool {
		return len(feed.Events()) == feedBuffer
	}, 2*time.Second, 5*time.Millisecond)

	// Stopping the feed must release the blocked writer, not wait for it.
	require.NoError(t, feed.Stop())

	select {
	case <-writerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("writer stayed blocked after the feed was stopped")
	}
}

func TestMemory_ResponderRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	r := &types.Responder{
		ID:           "vol-1",
		Name:         "Asha",
		Skills:       []string{"medical", "first_aid"},
		Availability: types.AvailabilityAvailable,
	}
	require.NoError(t, s.PutResponder(ctx, r))

	got, err := s.GetResponder(ctx, "vol-1")
	require.NoError(t, err)
	require.Equal(t, r.Skills, got.Skills)

	all, err := s.ListResponders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
