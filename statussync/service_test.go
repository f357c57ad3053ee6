package statussync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/store"
	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// recordingApplier records applied mutations and can be programmed to fail
// or to report a mutation as already applied.
type recordingApplier struct {
	mu             sync.Mutex
	applied        []types.Mutation
	failuresByID   map[string]int
	alreadyApplied map[string]bool
}

func newRecordingApplier() *recordingApplier {
	return &recordingApplier{
		failuresByID:   make(map[string]int),
		alreadyApplied: make(map[string]bool),
	}
}

func (a *recordingApplier) ApplyMutation(_ context.Context, m types.Mutation) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.failuresByID[m.ID] > 0 {
		a.failuresByID[m.ID]--

		return errors.New("store unreachable")
	}
	if a.alreadyApplied[m.ID] {
		return types.ErrAlreadyApplied
	}

	a.applied = append(a.applied, m)

	return nil
}

func (a *recordingApplier) appliedIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	ids := make([]string, 0, len(a.applied))
	for _, m := range a.applied {
		ids = append(ids, m.ID)
	}

	return ids
}

// gatedApplier holds every mutation in flight until released, so tests can
// race new work against a drain that is mid-apply.
type gatedApplier struct {
	inner   *recordingApplier
	entered chan string
	release chan struct{}
}

func (a *gatedApplier) ApplyMutation(ctx context.Context, m types.Mutation) error {
	a.entered <- m.ID
	<-a.release

	return a.inner.ApplyMutation(ctx, m)
}

func newTestService(t *testing.T, applier types.MutationApplier) (*Service, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	svc, err := New(mem, nil, applier, Config{
		ReplayBackoffBase: time.Millisecond,
		ReplayBackoffCap:  5 * time.Millisecond,
		ReplaySeed:        42,
	})
	require.NoError(t, err)
	t.Cleanup(svc.Cleanup)

	return svc, mem
}

func TestNew_Validation(t *testing.T) {
	t.Run("requires feed source", func(t *testing.T) {
		_, err := New(nil, nil, newRecordingApplier(), Config{})
		require.ErrorIs(t, err, types.ErrFeedSourceRequired)
	})

	t.Run("requires applier", func(t *testing.T) {
		_, err := New(store.NewMemory(), nil, nil, Config{})
		require.ErrorIs(t, err, types.ErrApplierRequired)
	})
}

func TestService_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers change events to the callback", func(t *testing.T) {
		svc, mem := newTestService(t, newRecordingApplier())

		events := make(chan types.ChangeEvent, 8)
		dispose, err := svc.Subscribe(ctx, types.TableRequests, func(ev types.ChangeEvent) {
			events <- ev
		})
		require.NoError(t, err)
		defer dispose()

		require.NoError(t, mem.PutRequest(ctx, &types.Request{ID: "req-1", Status: types.StatusPending}))

		select {
		case ev := <-events:
			require.Equal(t, types.TableRequests, ev.Table)
			require.Equal(t, types.EventInsert, ev.Type)
			require.Equal(t, "req-1", ev.Key)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for change event")
		}
	})

	t.Run("independent subscriptions do not interfere", func(t *testing.T) {
		svc, mem := newTestService(t, newRecordingApplier())

		first := make(chan types.ChangeEvent, 8)
		second := make(chan types.ChangeEvent, 8)

		disposeFirst, err := svc.Subscribe(ctx, types.TableRequests, func(ev types.ChangeEvent) { first <- ev })
		require.NoError(t, err)
		disposeSecond, err := svc.Subscribe(ctx, types.TableRequests, func(ev types.ChangeEvent) { second <- ev })
		require.NoError(t, err)
		defer disposeSecond()

		require.NoError(t, mem.PutRequest(ctx, &types.Request{ID: "req-1", Status: types.StatusPending}))

		for _, ch := range []chan types.ChangeEvent{first, second} {
			select {
			case <-ch:
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for first event")
			}
		}

		// Disposing the first subscription must not affect the second.
		disposeFirst()
		disposeFirst() // idempotent

		require.NoError(t, mem.PutRequest(ctx, &types.Request{ID: "req-2", Status: types.StatusPending}))

		select {
		case ev := <-second:
			require.Equal(t, "req-2", ev.Key)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for second event")
		}

		select {
		case ev := <-first:
			t.Fatalf("disposed subscription received event %v", ev)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("update events carry old and new rows", func(t *testing.T) {
		svc, mem := newTestService(t, newRecordingApplier())

		events := make(chan types.ChangeEvent, 8)
		dispose, err := svc.Subscribe(ctx, types.TableRequests, func(ev types.ChangeEvent) { events <- ev })
		require.NoError(t, err)
		defer dispose()

		req := &types.Request{ID: "req-1", Status: types.StatusPending}
		require.NoError(t, mem.PutRequest(ctx, req))

		ok, err := mem.CompareAndSetRequestStatus(ctx, "req-1", types.StatusPending, types.StatusAssigned)
		require.NoError(t, err)
		require.True(t, ok)

		var update types.ChangeEvent
		for {
			select {
			case ev := <-events:
				if ev.Type == types.EventUpdate {
					update = ev
				}
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for update event")
			}
			if update.Type == types.EventUpdate {
				break
			}
		}

		require.NotNil(t, update.Old)
		require.NotNil(t, update.New)
	})
}

func TestService_BroadcastRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to local listeners without a connection", func(t *testing.T) {
		svc, _ := newTestService(t, newRecordingApplier())

		signals := make(chan types.RefreshSignal, 4)
		dispose, err := svc.OnRefresh(func(sig types.RefreshSignal) { signals <- sig })
		require.NoError(t, err)
		defer dispose()

		require.NoError(t, svc.BroadcastRefresh(ctx, "mark_all_completed"))

		select {
		case sig := <-signals:
			require.Equal(t, "mark_all_completed", sig.Reason)
			require.False(t, sig.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for refresh signal")
		}
	})

	t.Run("disposed listener receives nothing", func(t *testing.T) {
		svc, _ := newTestService(t, newRecordingApplier())

		signals := make(chan types.RefreshSignal, 4)
		dispose, err := svc.OnRefresh(func(sig types.RefreshSignal) { signals <- sig })
		require.NoError(t, err)

		dispose()
		require.NoError(t, svc.BroadcastRefresh(ctx, "noop"))

		select {
		case <-signals:
			t.Fatal("disposed listener received a signal")
		case <-time.After(50 * time.Millisecond):
		}
	})
}

func TestService_OfflineQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("replays queued mutations in FIFO order exactly once", func(t *testing.T) {
		applier := newRecordingApplier()
		svc, _ := newTestService(t, applier)

		svc.SetOffline()
		require.False(t, svc.Online())

		for _, id := range []string{"m1", "m2", "m3"} {
			require.NoError(t, svc.Apply(ctx, types.Mutation{
				ID:       id,
				Kind:     types.MutationRequestStatus,
				TargetID: "req-" + id,
				Value:    string(types.StatusCompleted),
			}))
		}
		require.Equal(t, 3, svc.QueueLen())
		require.Empty(t, applier.appliedIDs())

		svc.SetOnline()

		require.Eventually(t, func() bool {
			return svc.QueueLen() == 0
		}, 2*time.Second, 5*time.Millisecond)
		require.Equal(t, []string{"m1", "m2", "m3"}, applier.appliedIDs())
	})

	t.Run("failed head is retried at the front, preserving order", func(t *testing.T) {
		applier := newRecordingApplier()
		applier.failuresByID["m1"] = 2
		svc, _ := newTestService(t, applier)

		svc.SetOffline()
		require.NoError(t, svc.Apply(ctx, types.Mutation{ID: "m1", Kind: types.MutationRequestStatus, TargetID: "r1"}))
		require.NoError(t, svc.Apply(ctx, types.Mutation{ID: "m2", Kind: types.MutationRequestStatus, TargetID: "r2"}))

		svc.SetOnline()

		require.Eventually(t, func() bool {
			return svc.QueueLen() == 0
		}, 2*time.Second, 5*time.Millisecond)
		require.Equal(t, []string{"m1", "m2"}, applier.appliedIDs())
	})

	t.Run("already-applied target is a no-op success", func(t *testing.T) {
		applier := newRecordingApplier()
		applier.alreadyApplied["m1"] = true
		svc, _ := newTestService(t, applier)

		svc.SetOffline()
		require.NoError(t, svc.Apply(ctx, types.Mutation{ID: "m1", Kind: types.MutationRequestStatus, TargetID: "r1"}))
		require.NoError(t, svc.Apply(ctx, types.Mutation{ID: "m2", Kind: types.MutationRequestStatus, TargetID: "r2"}))

		svc.SetOnline()

		require.Eventually(t, func() bool {
			return svc.QueueLen() == 0
		}, 2*time.Second, 5*time.Millisecond)
		// m1 was already applied, so only m2 reaches the store.
		require.Equal(t, []string{"m2"}, applier.appliedIDs())
	})

	t.Run("mutation enqueued while the drain is finishing is still applied", func(t *testing.T) {
		inner := newRecordingApplier()
		applier := &gatedApplier{inner: inner, entered: make(chan string, 4), release: make(chan struct{})}
		svc, _ := newTestService(t, applier)

		svc.SetOffline()
		require.NoError(t, svc.Apply(ctx, types.Mutation{ID: "m1", Kind: types.MutationRequestStatus, TargetID: "r1"}))

		svc.SetOnline()

		// Wait until the replayer holds m1 in flight, then race a second
		// mutation against the drain.
		select {
		case <-applier.entered:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for replay to pick up the head")
		}
		require.NoError(t, svc.Apply(ctx, types.Mutation{ID: "m2", Kind: types.MutationRequestStatus, TargetID: "r2"}))
		close(applier.release)

		require.Eventually(t, func() bool {
			return svc.QueueLen() == 0 && len(inner.appliedIDs()) == 2
		}, 2*time.Second, 5*time.Millisecond)
		require.Equal(t, []string{"m1", "m2"}, inner.appliedIDs())
	})

	t.Run("applies immediately while online", func(t *testing.T) {
		applier := newRecordingApplier()
		svc, _ := newTestService(t, applier)

		require.NoError(t, svc.Apply(ctx, types.Mutation{ID: "m1", Kind: types.MutationRequestStatus, TargetID: "r1"}))
		require.Equal(t, 0, svc.QueueLen())
		require.Equal(t, []string{"m1"}, applier.appliedIDs())
	})
}

func TestService_ReplayHandoff(t *testing.T) {
	t.Run("exiting replayer reclaims work enqueued during the handoff window", func(t *testing.T) {
		svc, _ := newTestService(t, newRecordingApplier())

		// Stage the handoff window directly: a drain is on its way out and
		// still holds the replaying flag, and a mutation lands after its
		// final queue check. The enqueuer's start attempt loses the flag.
		svc.replaying.Store(true)
		svc.queueMu.Lock()
		svc.queue = append(svc.queue, types.Mutation{ID: "m1", Kind: types.MutationRequestStatus, TargetID: "r1"})
		svc.queueMu.Unlock()
		svc.startReplay()
		require.Equal(t, 1, svc.QueueLen())

		// The exiting drain must notice the stranded work and keep running
		// rather than leaving the queue parked while the service is online.
		require.True(t, svc.resumeReplay())
		require.True(t, svc.replaying.Load())

		svc.replaying.Store(false)
		svc.queueMu.Lock()
		svc.queue = nil
		svc.queueMu.Unlock()
	})

	t.Run("releases the flag when the queue is drained", func(t *testing.T) {
		svc, _ := newTestService(t, newRecordingApplier())

		svc.replaying.Store(true)
		require.False(t, svc.resumeReplay())
		require.False(t, svc.replaying.Load())
	})

	t.Run("releases the flag when offline", func(t *testing.T) {
		svc, _ := newTestService(t, newRecordingApplier())

		svc.SetOffline()
		svc.replaying.Store(true)
		svc.queueMu.Lock()
		svc.queue = append(svc.queue, types.Mutation{ID: "m1", Kind: types.MutationRequestStatus, TargetID: "r1"})
		svc.queueMu.Unlock()

		require.False(t, svc.resumeReplay())
		require.False(t, svc.replaying.Load())

		svc.queueMu.Lock()
		svc.queue = nil
		svc.queueMu.Unlock()
	})
}

func TestService_Cleanup(t *testing.T) {
	ctx := context.Background()

	applier := newRecordingApplier()
	svc, _ := newTestService(t, applier)

	_, err := svc.Subscribe(ctx, types.TableRequests, func(types.ChangeEvent) {})
	require.NoError(t, err)

	svc.SetOffline()
	require.NoError(t, svc.Apply(ctx, types.Mutation{ID: "m1", Kind: types.MutationRequestStatus, TargetID: "r1"}))

	svc.Cleanup()
	svc.Cleanup() // idempotent

	// The queue is discarded; the mutation is never applied.
	require.Equal(t, 0, svc.QueueLen())
	require.Empty(t, applier.appliedIDs())

	_, err = svc.Subscribe(ctx, types.TableRequests, func(types.ChangeEvent) {})
	require.ErrorIs(t, err, types.ErrSyncClosed)

	require.ErrorIs(t, svc.BroadcastRefresh(ctx, "x"), types.ErrSyncClosed)
	require.ErrorIs(t, svc.Apply(ctx, types.Mutation{ID: "m2"}), types.ErrSyncClosed)
}
