package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/DhruvalBhinsara1/BandhuConnect-Plus-sub001/types"
)

// PromMetrics implements types.MetricsCollector with Prometheus collectors.
type PromMetrics struct {
	assignmentAttempts *prometheus.CounterVec
	assignmentScores   prometheus.Histogram
	batchDuration      prometheus.Histogram
	bulkCompleted      prometheus.Counter
	feedEvents         *prometheus.CounterVec
	broadcasts         *prometheus.CounterVec
	queueDepth         prometheus.Gauge
	replays            *prometheus.CounterVec
	connectivity       prometheus.Gauge
}

var _ types.MetricsCollector = (*PromMetrics)(nil)

// NewPrometheus creates a Prometheus-backed collector and registers its
// collectors with the given registerer.
//
// Parameters:
//   - reg: Registerer to register collectors with; nil uses the default
//
// Returns:
//   - *PromMetrics: The collector instance
//   - error: Registration failure (e.g. duplicate registration)
func NewPrometheus(reg prometheus.Registerer) (*PromMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PromMetrics{
		assignmentAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bandhu_assignment_attempts_total",
			Help: "Assignment attempts by outcome.",
		}, []string{"outcome"}),
		assignmentScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bandhu_assignment_match_score",
			Help:    "Match scores of committed assignments.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bandhu_batch_assign_duration_seconds",
			Help:    "Wall time of batchAssign calls.",
			Buckets: prometheus.DefBuckets,
		}),
		bulkCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bandhu_bulk_completed_requests_total",
			Help: "Requests closed by bulk completion sweeps.",
		}),
		feedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bandhu_feed_events_total",
			Help: "Change-feed events delivered to subscribers.",
		}, []string{"table", "type"}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bandhu_refresh_broadcasts_total",
			Help: "Refresh broadcasts emitted.",
		}, []string{"reason"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bandhu_offline_queue_depth",
			Help: "Current offline mutation queue depth.",
		}),
		replays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bandhu_mutation_replays_total",
			Help: "Replay attempts of queued mutations by result.",
		}, []string{"result"}),
		connectivity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bandhu_sync_online",
			Help: "Connectivity state of the sync service (1 = online).",
		}),
	}

	collectors := []prometheus.Collector{
		m.assignmentAttempts, m.assignmentScores, m.batchDuration, m.bulkCompleted,
		m.feedEvents, m.broadcasts, m.queueDepth, m.replays, m.connectivity,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// RecordAssignmentAttempt records one assignment attempt by outcome.
func (m *PromMetrics) RecordAssignmentAttempt(outcome string) {
	m.assignmentAttempts.WithLabelValues(outcome).Inc()
}

// RecordAssignmentScore records the match score of a committed assignment.
func (m *PromMetrics) RecordAssignmentScore(score float64) {
	m.assignmentScores.Observe(score)
}

// RecordBatchDuration records the wall time of one batchAssign call.
func (m *PromMetrics) RecordBatchDuration(seconds float64) {
	m.batchDuration.Observe(seconds)
}

// RecordBulkCompleted records requests closed by one bulk sweep.
func (m *PromMetrics) RecordBulkCompleted(count int) {
	m.bulkCompleted.Add(float64(count))
}

// RecordFeedEvent records one change-feed event delivery.
func (m *PromMetrics) RecordFeedEvent(table, eventType string) {
	m.feedEvents.WithLabelValues(table, eventType).Inc()
}

// RecordBroadcast records one refresh broadcast.
func (m *PromMetrics) RecordBroadcast(reason string) {
	m.broadcasts.WithLabelValues(reason).Inc()
}

// SetOfflineQueueDepth sets the offline queue depth gauge.
func (m *PromMetrics) SetOfflineQueueDepth(depth int) {
	m.queueDepth.Set(float64(depth))
}

// RecordReplay records one replay attempt.
func (m *PromMetrics) RecordReplay(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.replays.WithLabelValues(result).Inc()
}

// SetConnectivity sets the connectivity gauge.
func (m *PromMetrics) SetConnectivity(online bool) {
	if online {
		m.connectivity.Set(1)
	} else {
		m.connectivity.Set(0)
	}
}
