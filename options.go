package bandhu

// Option configures a Coordinator with optional dependencies.
type Option func(*coordinatorOptions)

// coordinatorOptions holds optional Coordinator configuration.
type coordinatorOptions struct {
	authorizer  Authorizer
	broadcaster Broadcaster
	metrics     MetricsCollector
	logger      Logger
	scorer      Scorer
}

// WithAuthorizer sets the permission hook consulted before bulk operations.
//
// Without an authorizer the Coordinator allows bulk operations, which is only
// appropriate when it is embedded in a trusted process.
//
// Parameters:
//   - authorizer: Authorizer implementation
//
// Returns:
//   - Option: Functional option for New
func WithAuthorizer(authorizer Authorizer) Option {
	return func(o *coordinatorOptions) {
		o.authorizer = authorizer
	}
}

// WithBroadcaster sets the broadcaster notified after bulk mutations.
//
// Typically this is the statussync.Service, so connected sessions reconcile
// in one round trip instead of draining per-row change events.
//
// Parameters:
//   - broadcaster: Broadcaster implementation
//
// Returns:
//   - Option: Functional option for New
func WithBroadcaster(broadcaster Broadcaster) Option {
	return func(o *coordinatorOptions) {
		o.broadcaster = broadcaster
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for New
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *coordinatorOptions) {
		o.metrics = metrics
	}
}

// WithScorer replaces the default match-package scorer.
//
// Parameters:
//   - scorer: Scorer implementation; must be pure and concurrency-safe
//
// Returns:
//   - Option: Functional option for New
func WithScorer(scorer Scorer) Option {
	return func(o *coordinatorOptions) {
		o.scorer = scorer
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for New
func WithLogger(logger Logger) Option {
	return func(o *coordinatorOptions) {
		o.logger = logger
	}
}
