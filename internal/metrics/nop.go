// Package metrics provides types.MetricsCollector implementations: a no-op
// collector and a Prometheus-backed collector.
package metrics

import "github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for tests or when metrics are collected
// elsewhere.
type NopMetrics struct{}

var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordAssignmentAttempt discards the assignment attempt metric.
func (n *NopMetrics) RecordAssignmentAttempt(_ /* outcome */ string) {
	// No-op
}

// RecordAssignmentScore discards the match score metric.
func (n *NopMetrics) RecordAssignmentScore(_ /* score */ float64) {
	// No-op
}

// RecordBatchDuration discards the batch duration metric.
func (n *NopMetrics) RecordBatchDuration(_ /* seconds */ float64) {
	// No-op
}

// RecordBulkCompleted discards the bulk completion metric.
func (n *NopMetrics) RecordBulkCompleted(_ /* count */ int) {
	// No-op
}

// RecordFeedEvent discards the feed event metric.
func (n *NopMetrics) RecordFeedEvent(_ /* table */, _ /* eventType */ string) {
	// No-op
}

// RecordBroadcast discards the broadcast metric.
func (n *NopMetrics) RecordBroadcast(_ /* reason */ string) {
	// No-op
}

// SetOfflineQueueDepth discards the queue depth gauge.
func (n *NopMetrics) SetOfflineQueueDepth(_ /* depth */ int) {
	// No-op
}

// RecordReplay discards the replay attempt metric.
func (n *NopMetrics) RecordReplay(_ /* success */ bool) {
	// No-op
}

// SetConnectivity discards the connectivity gauge.
func (n *NopMetrics) SetConnectivity(_ /* online */ bool) {
	// No-op
}
