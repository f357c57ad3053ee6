package bandhu

import (
	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/internal/logging"
	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/internal/metrics"
	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// Coordinator commits assignments between assistance requests and responders.
//
// It is the only component allowed to mutate Request, Responder, and
// Assignment records; every status change goes through the store's
// conditional-write path.
//
// Thread Safety:
//   - All public methods are safe for concurrent use.
//   - The Coordinator holds no client-side locks across store calls; two
//     independent callers racing on the same request are resolved by the
//     conditional write, with exactly one winner.
//
// Lifecycle:
//   - Create with New()
//   - The Coordinator is stateless between calls; there is nothing to start
//     or stop.
//
// Testing:
// Consumers can define minimal interfaces for mocking:
//
//	type Assigner interface {
//	    Assign(ctx context.Context, requestID, responderID string, minScore float64, opts AssignOptions) (*AssignResult, error)
//	}
type Coordinator struct {
	cfg    Config
	store  types.RecordStore
	scorer Scorer

	// Optional dependencies
	authorizer  Authorizer
	broadcaster Broadcaster
	metrics     MetricsCollector
	logger      Logger
}

// Compile-time assertion: the Coordinator applies queued mutations during
// offline-queue replay.
var _ types.MutationApplier = (*Coordinator)(nil)

// New creates a Coordinator instance with the provided configuration.
//
// Returns a concrete *Coordinator following the "accept interfaces, return
// structs" principle; consumers define their own interfaces for testing.
//
// Parameters:
//   - cfg: Configuration; zero-value fields select defaults
//   - store: Record store providing atomic conditional status writes
//   - opts: Optional configuration (authorizer, broadcaster, metrics, logger)
//
// Returns:
//   - *Coordinator: Initialized coordinator
//   - error: Validation error if the configuration is invalid
//
// Example:
//
//	st, _ := store.NewNATS(ctx, nc, store.Config{}, nil)
//	coord, err := bandhu.New(&bandhu.Config{}, st, bandhu.WithBroadcaster(syncSvc))
func New(cfg *Config, store types.RecordStore, opts ...Option) (*Coordinator, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	resolved := *cfg
	resolved.setDefaults()
	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	options := coordinatorOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = logging.NewSlogDefault()
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}
	if options.scorer == nil {
		options.scorer = defaultScorer{}
	}

	return &Coordinator{
		cfg:         resolved,
		store:       store,
		scorer:      options.scorer,
		authorizer:  options.authorizer,
		broadcaster: options.broadcaster,
		metrics:     options.metrics,
		logger:      options.logger,
	}, nil
}
