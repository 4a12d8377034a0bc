package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngagementMetrics records scoring-engine metrics. Implementations must be
// safe for concurrent use.
type EngagementMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)

	RecordActivityProcessed(ctx context.Context, kind string)
	RecordActivityCapped(ctx context.Context, kind string)
	RecordLevelUp(ctx context.Context)
	RecordStreakExtended(ctx context.Context)

	RecordTickDuration(ctx context.Context, duration time.Duration)
	RecordTickMembers(ctx context.Context, processed, skipped, failed int)
}

type prometheusMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec

	activityProcessed *prometheus.CounterVec
	activityCapped    *prometheus.CounterVec
	levelUps          prometheus.Counter
	streaksExtended   prometheus.Counter

	tickDuration prometheus.Histogram
	tickMembers  *prometheus.CounterVec
}

// NewPrometheusMetrics registers the engagement metric set on the given
// registry and returns the recording handle.
func NewPrometheusMetrics(registry *prometheus.Registry) EngagementMetrics {
	m := &prometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_operation_attempts_total",
			Help: "Number of service operation invocations.",
		}, []string{"operation"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_operation_successes_total",
			Help: "Number of service operations that completed successfully.",
		}, []string{"operation"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_operation_failures_total",
			Help: "Number of service operations that failed.",
		}, []string{"operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "engagement_operation_duration_seconds",
			Help:    "Service operation duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		activityProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_activity_processed_total",
			Help: "Activity updates that awarded XP, by activity kind.",
		}, []string{"kind"}),
		activityCapped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_activity_capped_total",
			Help: "Activity updates rejected by the daily cap, by activity kind.",
		}, []string{"kind"}),
		levelUps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engagement_level_ups_total",
			Help: "Level-up events.",
		}),
		streaksExtended: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "engagement_streaks_extended_total",
			Help: "Streak-extended events.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "engagement_voice_tick_duration_seconds",
			Help:    "Duration of one full voice tally tick.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120},
		}),
		tickMembers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engagement_voice_tick_members_total",
			Help: "Per-member outcomes within voice tally ticks.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		m.operationAttempts,
		m.operationSuccesses,
		m.operationFailures,
		m.operationDuration,
		m.activityProcessed,
		m.activityCapped,
		m.levelUps,
		m.streaksExtended,
		m.tickDuration,
		m.tickMembers,
	)

	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.operationAttempts.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.operationSuccesses.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.operationFailures.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordActivityProcessed(_ context.Context, kind string) {
	m.activityProcessed.WithLabelValues(kind).Inc()
}

func (m *prometheusMetrics) RecordActivityCapped(_ context.Context, kind string) {
	m.activityCapped.WithLabelValues(kind).Inc()
}

func (m *prometheusMetrics) RecordLevelUp(_ context.Context) {
	m.levelUps.Inc()
}

func (m *prometheusMetrics) RecordStreakExtended(_ context.Context) {
	m.streaksExtended.Inc()
}

func (m *prometheusMetrics) RecordTickDuration(_ context.Context, duration time.Duration) {
	m.tickDuration.Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordTickMembers(_ context.Context, processed, skipped, failed int) {
	m.tickMembers.WithLabelValues("processed").Add(float64(processed))
	m.tickMembers.WithLabelValues("skipped").Add(float64(skipped))
	m.tickMembers.WithLabelValues("failed").Add(float64(failed))
}

// NoOpMetrics implements EngagementMetrics without recording anything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string)                {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string)                {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string)                {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordActivityProcessed(context.Context, string)               {}
func (NoOpMetrics) RecordActivityCapped(context.Context, string)                  {}
func (NoOpMetrics) RecordLevelUp(context.Context)                                 {}
func (NoOpMetrics) RecordStreakExtended(context.Context)                          {}
func (NoOpMetrics) RecordTickDuration(context.Context, time.Duration)             {}
func (NoOpMetrics) RecordTickMembers(context.Context, int, int, int)              {}
