package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ReviewMetrics contains Prometheus metrics for review processing
type ReviewMetrics struct {
	registry *prometheus.Registry

	sentimentOutcomes *prometheus.CounterVec
	reviewOperations  *prometheus.CounterVec
}

// NewReviewMetrics creates and registers new review metrics
func NewReviewMetrics(registry *prometheus.Registry) (*ReviewMetrics, error) {
	m := &ReviewMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *ReviewMetrics) initMetrics() error {
	m.sentimentOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_sentiment_outcomes_total",
			Help: "Total number of classified reviews by sentiment label",
		},
		[]string{"label"},
	)

	m.reviewOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_operations_total",
			Help: "Total number of review service operations",
		},
		[]string{"operation", "status"},
	)

	return nil
}

// getCollectors returns all collectors in order for Describe/Collect operations
func (m *ReviewMetrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.sentimentOutcomes,
		m.reviewOperations,
	}
}

// Describe implements the Collector interface
func (m *ReviewMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *ReviewMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// RecordSentimentOutcome records one classified review by its label
func (m *ReviewMetrics) RecordSentimentOutcome(label string) {
	m.sentimentOutcomes.WithLabelValues(label).Inc()
}

// RecordReviewOperation records a review service operation
func (m *ReviewMetrics) RecordReviewOperation(operation, status string) {
	m.reviewOperations.WithLabelValues(operation, status).Inc()
}
