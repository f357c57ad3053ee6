package types

// MetricsCollector receives operational metrics from the coordination core.
//
// All methods must be safe for concurrent use and must not block; collectors
// doing I/O should buffer internally. A no-op implementation is available in
// internal/metrics for callers that collect metrics elsewhere.
type MetricsCollector interface {
	// RecordAssignmentAttempt records one assignment attempt with its outcome
	// ("success" or an ErrorKind string).
	RecordAssignmentAttempt(outcome string)

	// RecordAssignmentScore records the match score of a committed assignment.
	RecordAssignmentScore(score float64)

	// RecordBatchDuration records the wall time of one batchAssign call.
	RecordBatchDuration(seconds float64)

	// RecordBulkCompleted records the number of requests closed by one bulk
	// completion sweep.
	RecordBulkCompleted(count int)

	// RecordFeedEvent records one change-feed event delivered to subscribers.
	RecordFeedEvent(table, eventType string)

	// RecordBroadcast records one refresh broadcast.
	RecordBroadcast(reason string)

	// SetOfflineQueueDepth sets the current offline-queue depth.
	SetOfflineQueueDepth(depth int)

	// RecordReplay records one replay attempt of a queued mutation.
	RecordReplay(success bool)

	// SetConnectivity sets the connectivity gauge (true = online).
	SetConnectivity(online bool)
}
