package statussync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/internal/logging"
	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/internal/metrics"
	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// Option configures optional Service dependencies.
type Option func(*serviceOptions)

type serviceOptions struct {
	logger  types.Logger
	metrics types.MetricsCollector
}

// WithLogger sets the service logger.
func WithLogger(logger types.Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector types.MetricsCollector) Option {
	return func(o *serviceOptions) {
		o.metrics = collector
	}
}

// Service implements the real-time status synchronization layer.
//
// Thread safety: all public methods are safe for concurrent use. Event
// callbacks run on the per-table pump goroutine; they should return quickly
// and must not call back into Cleanup.
//
// The offline queue is owned exclusively by the Service; no other component
// inspects or mutates it.
type Service struct {
	feeds   types.ChangeFeedSource
	conn    *nats.Conn
	applier types.MutationApplier
	cfg     Config

	logger  types.Logger
	metrics types.MetricsCollector

	// Per-table feed state. feedMu guards feed creation; the subscriber maps
	// handle the fan-out hot path lock-free.
	feedMu sync.Mutex
	tables map[types.Table]*tableFeed

	nextSubID atomic.Uint64

	// Local refresh listeners. When a NATS connection is present they are
	// backed by subject subscriptions; otherwise broadcasts loop back
	// directly.
	refreshSubs *xsync.Map[uint64, *refreshSub]

	online    atomic.Bool
	replaying atomic.Bool

	queueMu sync.Mutex
	queue   []types.Mutation

	closed atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type tableFeed struct {
	feed        types.ChangeFeed
	subscribers *xsync.Map[uint64, *subscriber]
}

type subscriber struct {
	cb       func(types.ChangeEvent)
	disposed atomic.Bool
}

type refreshSub struct {
	cb      func(types.RefreshSignal)
	natsSub *nats.Subscription
}

// New creates a status sync service.
//
// The service starts Online with an empty queue and no active feeds; feeds
// are opened lazily on first subscription per table.
//
// Parameters:
//   - feeds: Change feed source (the record store)
//   - conn: NATS connection for refresh broadcasts; may be nil, in which
//     case broadcasts are delivered to local listeners only
//   - applier: Applies mutation intents against the authoritative store
//   - cfg: Service configuration (zero value selects defaults)
//   - opts: Optional logger and metrics
//
// Returns:
//   - *Service: The service instance
//   - error: Validation error for missing dependencies
func New(feeds types.ChangeFeedSource, conn *nats.Conn, applier types.MutationApplier, cfg Config, opts ...Option) (*Service, error) {
	if feeds == nil {
		return nil, types.ErrFeedSourceRequired
	}
	if applier == nil {
		return nil, types.ErrApplierRequired
	}
	cfg.setDefaults()

	options := serviceOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = logging.NewSlogDefault()
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		feeds:       feeds,
		conn:        conn,
		applier:     applier,
		cfg:         cfg,
		logger:      options.logger,
		metrics:     options.metrics,
		tables:      make(map[types.Table]*tableFeed),
		refreshSubs: xsync.NewMap[uint64, *refreshSub](),
		ctx:         ctx,
		cancel:      cancel,
	}
	s.online.Store(true)
	s.metrics.SetConnectivity(true)

	return s, nil
}

// Subscribe registers a callback for row-level changes on a table.
//
// Multiple independent subscriptions to the same table are allowed and do
// not interfere. The returned disposer deterministically stops further
// delivery to this subscription and is safe to call multiple times; other
// subscriptions on the table are unaffected.
//
// Parameters:
//   - ctx: Reserved; the feed lifetime is bound to the service, not the call
//   - table: Entity table to watch
//   - cb: Callback invoked for each change event
//
// Returns:
//   - func(): Disposer stopping delivery to this subscription
//   - error: ErrSyncClosed after Cleanup, or feed setup failure
func (s *Service) Subscribe(ctx context.Context, table types.Table, cb func(types.ChangeEvent)) (func(), error) {
	if s.closed.Load() {
		return nil, types.ErrSyncClosed
	}

	s.feedMu.Lock()
	tf, ok := s.tables[table]
	if !ok {
		feed, err := s.feeds.Watch(s.ctx, table)
		if err != nil {
			s.feedMu.Unlock()
			return nil, fmt.Errorf("failed to open change feed for %s: %w", table, err)
		}

		tf = &tableFeed{feed: feed, subscribers: xsync.NewMap[uint64, *subscriber]()}
		s.tables[table] = tf
		s.wg.Add(1)
		go s.pump(table, tf)
	}
	s.feedMu.Unlock()

	id := s.nextSubID.Add(1)
	sub := &subscriber{cb: cb}
	tf.subscribers.Store(id, sub)

	disposer := func() {
		sub.disposed.Store(true)
		tf.subscribers.Delete(id)
	}

	return disposer, nil
}

// pump fans feed events out to the table's subscribers until the feed stops.
func (s *Service) pump(table types.Table, tf *tableFeed) {
	defer s.wg.Done()

	for event := range tf.feed.Events() {
		if s.closed.Load() {
			return
		}

		s.metrics.RecordFeedEvent(string(table), string(event.Type))
		tf.subscribers.Range(func(_ uint64, sub *subscriber) bool {
			// Disposed check keeps delivery deterministic: once the disposer
			// returns, the callback is never invoked again.
			if !sub.disposed.Load() {
				sub.cb(event)
			}

			return true
		})
	}
}

// BroadcastRefresh emits an out-of-band reconcile signal to all connected
// sessions.
//
// Called after bulk mutations so clients reconcile immediately instead of
// draining N per-row change events.
//
// Parameters:
//   - ctx: Context (reserved; the publish itself is non-blocking)
//   - reason: Human-readable cause, carried in the signal
//
// Returns:
//   - error: ErrSyncClosed after Cleanup, or publish failure
func (s *Service) BroadcastRefresh(_ context.Context, reason string) error {
	if s.closed.Load() {
		return types.ErrSyncClosed
	}

	signal := types.RefreshSignal{Reason: reason, At: time.Now().UTC()}
	s.metrics.RecordBroadcast(reason)
	s.logger.Info("broadcasting refresh", "reason", reason)

	if s.conn == nil {
		// No transport; deliver to local listeners directly.
		s.refreshSubs.Range(func(_ uint64, rs *refreshSub) bool {
			rs.cb(signal)

			return true
		})

		return nil
	}

	data, err := json.Marshal(&signal)
	if err != nil {
		return fmt.Errorf("failed to encode refresh signal: %w", err)
	}
	if err := s.conn.Publish(s.cfg.RefreshSubject, data); err != nil {
		return fmt.Errorf("failed to publish refresh signal: %w", err)
	}

	return nil
}

// OnRefresh registers a callback for refresh signals.
//
// With a NATS connection the callback is backed by a subject subscription and
// receives broadcasts from every session, including this one.
//
// Returns:
//   - func(): Disposer removing the listener
//   - error: ErrSyncClosed after Cleanup, or subscription failure
func (s *Service) OnRefresh(cb func(types.RefreshSignal)) (func(), error) {
	if s.closed.Load() {
		return nil, types.ErrSyncClosed
	}

	rs := &refreshSub{cb: cb}
	if s.conn != nil {
		natsSub, err := s.conn.Subscribe(s.cfg.RefreshSubject, func(msg *nats.Msg) {
			var signal types.RefreshSignal
			if err := json.Unmarshal(msg.Data, &signal); err != nil {
				s.logger.Warn("dropping malformed refresh signal", "error", err)

				return
			}
			cb(signal)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to subscribe to refresh subject: %w", err)
		}
		rs.natsSub = natsSub
	}

	id := s.nextSubID.Add(1)
	s.refreshSubs.Store(id, rs)

	disposer := func() {
		if removed, ok := s.refreshSubs.LoadAndDelete(id); ok && removed.natsSub != nil {
			_ = removed.natsSub.Unsubscribe()
		}
	}

	return disposer, nil
}

// Online reports the connectivity state.
func (s *Service) Online() bool { return s.online.Load() }

// SetOffline transitions the service to Offline.
//
// While offline, Apply queues mutation intents instead of applying them.
func (s *Service) SetOffline() {
	if !s.online.CompareAndSwap(true, false) {
		return
	}
	s.metrics.SetConnectivity(false)
	s.logger.Info("sync service offline", "queued", s.QueueLen())
}

// SetOnline transitions the service to Online and starts queue replay.
//
// Replay runs in a background goroutine on the service's own lifetime,
// strictly in FIFO order with at-least-once semantics: a failed item is
// retried at the front with backoff rather than dropped. Replay stops when
// the queue drains, the service goes offline again, or Cleanup runs.
func (s *Service) SetOnline() {
	if s.closed.Load() {
		return
	}
	if !s.online.CompareAndSwap(false, true) {
		return
	}
	s.metrics.SetConnectivity(true)
	s.logger.Info("sync service online", "queued", s.QueueLen())

	s.startReplay()
}

// Apply applies a mutation intent, or queues it while offline.
//
// While online with an empty queue the intent is applied immediately. While
// offline, or while the queue is still draining (to preserve FIFO order), it
// is appended to the queue with its enqueue timestamp.
//
// Parameters:
//   - ctx: Context for the immediate application path
//   - m: The mutation intent
//
// Returns:
//   - error: ErrSyncClosed after Cleanup; application failure on the
//     immediate path (never for queued intents)
func (s *Service) Apply(ctx context.Context, m types.Mutation) error {
	if s.closed.Load() {
		return types.ErrSyncClosed
	}
	if m.QueuedAt.IsZero() {
		m.QueuedAt = time.Now().UTC()
	}

	if s.online.Load() && s.QueueLen() == 0 {
		err := s.applier.ApplyMutation(ctx, m)
		if errors.Is(err, types.ErrAlreadyApplied) {
			return nil
		}

		return err
	}

	s.queueMu.Lock()
	s.queue = append(s.queue, m)
	depth := len(s.queue)
	s.queueMu.Unlock()

	s.metrics.SetOfflineQueueDepth(depth)
	s.logger.Debug("queued mutation", "mutation_id", m.ID, "kind", m.Kind, "target_id", m.TargetID, "depth", depth)

	// Covers the race where the service came back online while we queued.
	if s.online.Load() {
		s.startReplay()
	}

	return nil
}

// QueueLen returns the current offline-queue depth.
func (s *Service) QueueLen() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	return len(s.queue)
}

// startReplay launches the replay goroutine unless one is already running.
func (s *Service) startReplay() {
	if s.QueueLen() == 0 {
		return
	}
	if !s.replaying.CompareAndSwap(false, true) {
		return
	}

	s.wg.Add(1)
	go s.replayLoop()
}

// replayLoop drains the queue head-first with at-least-once semantics.
func (s *Service) replayLoop() {
	defer s.wg.Done()

	rng := newReplayRNG(s.cfg.ReplaySeed)
	var delay time.Duration

	for {
		if s.closed.Load() || !s.online.Load() {
			if s.resumeReplay() {
				continue
			}

			return
		}

		s.queueMu.Lock()
		if len(s.queue) == 0 {
			s.queueMu.Unlock()
			s.metrics.SetOfflineQueueDepth(0)
			if s.resumeReplay() {
				continue
			}

			return
		}
		head := s.queue[0]
		s.queueMu.Unlock()

		err := s.applier.ApplyMutation(s.ctx, head)
		if err == nil || errors.Is(err, types.ErrAlreadyApplied) {
			s.queueMu.Lock()
			// Head is removed only after success, so a crash or failure can
			// only cause re-application, never loss.
			s.queue = s.queue[1:]
			depth := len(s.queue)
			s.queueMu.Unlock()

			s.metrics.RecordReplay(true)
			s.metrics.SetOfflineQueueDepth(depth)
			if errors.Is(err, types.ErrAlreadyApplied) {
				s.logger.Debug("replayed mutation was already applied", "mutation_id", head.ID, "target_id", head.TargetID)
			}
			delay = 0

			continue
		}

		s.metrics.RecordReplay(false)
		s.logger.Warn("replay failed, retrying",
			"mutation_id", head.ID, "target_id", head.TargetID,
			"error", fmt.Errorf("%w: %w", types.ErrReplay, err))

		delay = jitterBackoff(delay, s.cfg.ReplayBackoffBase, s.cfg.ReplayBackoffMultiplier, s.cfg.ReplayBackoffCap, rng)
		select {
		case <-s.ctx.Done():
			s.replaying.Store(false)

			return
		case <-time.After(delay):
		}
	}
}

// resumeReplay clears the replaying flag on loop exit and closes the handoff
// window: a concurrent Apply or SetOnline may have enqueued work after this
// goroutine's last queue check, and its startReplay CAS lost to the flag we
// still held. Re-checking after the clear guarantees someone owns the queue:
// either this goroutine reclaims the flag and keeps draining, or the work
// surfaced before the clear and the racing caller's CAS wins.
//
// Returns true when this goroutine reclaimed the flag and must keep running.
func (s *Service) resumeReplay() bool {
	s.replaying.Store(false)
	if s.closed.Load() || !s.online.Load() || s.QueueLen() == 0 {
		return false
	}

	return s.replaying.CompareAndSwap(false, true)
}

// Cleanup tears the service down: stops all feeds, removes all listeners,
// cancels replay, and discards the pending queue.
//
// This is the only path that may lose queued work; it must only be invoked
// on deliberate shutdown, never implicitly. Cleanup is idempotent.
func (s *Service) Cleanup() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.cancel()

	s.feedMu.Lock()
	for table, tf := range s.tables {
		if err := tf.feed.Stop(); err != nil {
			s.logger.Warn("failed to stop change feed", "table", table, "error", err)
		}
	}
	s.tables = make(map[types.Table]*tableFeed)
	s.feedMu.Unlock()

	s.refreshSubs.Range(func(id uint64, rs *refreshSub) bool {
		if rs.natsSub != nil {
			_ = rs.natsSub.Unsubscribe()
		}
		s.refreshSubs.Delete(id)

		return true
	})

	s.wg.Wait()

	s.queueMu.Lock()
	dropped := len(s.queue)
	s.queue = nil
	s.queueMu.Unlock()

	s.metrics.SetOfflineQueueDepth(0)
	if dropped > 0 {
		s.logger.Warn("discarded queued mutations on cleanup", "count", dropped)
	}
	s.logger.Info("sync service cleaned up")
}
