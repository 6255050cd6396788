package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. Construct exactly
// once in main; services tolerate a nil *Metrics so tests can skip it.
type Metrics struct {
	SubmissionsTotal     *prometheus.CounterVec
	SubmissionDuration   prometheus.Histogram
	ParticipantsCreated  prometheus.Counter
	ParticipantsMatched  prometheus.Counter
	NotificationsEmitted *prometheus.CounterVec
	NotificationsDropped prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emarge_submissions_total",
			Help: "Attendance submissions by outcome",
		}, []string{"outcome"}),
		SubmissionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "emarge_submission_duration_seconds",
			Help:    "End-to-end latency of attendance submissions",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		ParticipantsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "emarge_participants_created_total",
			Help: "New participant records created by the identity matcher",
		}),
		ParticipantsMatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "emarge_participants_matched_total",
			Help: "Submissions matched to an existing participant record",
		}),
		NotificationsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emarge_notifications_emitted_total",
			Help: "Staff notifications created by type",
		}, []string{"type"}),
		NotificationsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "emarge_notifications_dropped_total",
			Help: "Notifications dropped due to a full queue or store failure",
		}),
	}
}

// ObserveSubmission records one submission outcome with its duration.
func (m *Metrics) ObserveSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
	m.SubmissionDuration.Observe(seconds)
}

// RecordParticipant counts an identity matcher outcome.
func (m *Metrics) RecordParticipant(created bool) {
	if m == nil {
		return
	}
	if created {
		m.ParticipantsCreated.Inc()
		return
	}
	m.ParticipantsMatched.Inc()
}

// RecordNotificationEmitted counts one created notification.
func (m *Metrics) RecordNotificationEmitted(notificationType string) {
	if m == nil {
		return
	}
	m.NotificationsEmitted.WithLabelValues(notificationType).Inc()
}

// RecordNotificationDropped counts one dropped notification.
func (m *Metrics) RecordNotificationDropped() {
	if m == nil {
		return
	}
	m.NotificationsDropped.Inc()
}
