package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	sessionEvents   *prom.CounterVec
	sessionDuration prom.Histogram
	projectEvents   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.sessionEvents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "timetracker",
			Name:      "session_events_total",
			Help:      "Timer session events by kind",
		}, []string{"event"})
		pr.sessionDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "timetracker",
			Name:      "session_duration_seconds",
			Help:      "Duration of closed timer sessions",
			Buckets:   []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800},
		})
		pr.projectEvents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "timetracker",
			Name:      "project_events_total",
			Help:      "Project lifecycle events by kind",
		}, []string{"event"})
		reg.MustRegister(pr.sessionEvents, pr.sessionDuration, pr.projectEvents)
	})
	return pr
}

func (p *PrometheusRecorder) IncSessionStarted() {
	if p == nil || p.sessionEvents == nil {
		return
	}
	p.sessionEvents.WithLabelValues("started").Inc()
}

func (p *PrometheusRecorder) IncSessionStopped() {
	if p == nil || p.sessionEvents == nil {
		return
	}
	p.sessionEvents.WithLabelValues("stopped").Inc()
}

func (p *PrometheusRecorder) IncSessionDiscarded() {
	if p == nil || p.sessionEvents == nil {
		return
	}
	p.sessionEvents.WithLabelValues("discarded").Inc()
}

func (p *PrometheusRecorder) IncSessionRecovered() {
	if p == nil || p.sessionEvents == nil {
		return
	}
	p.sessionEvents.WithLabelValues("recovered").Inc()
}

func (p *PrometheusRecorder) ObserveSessionDuration(d time.Duration) {
	if p == nil || p.sessionDuration == nil {
		return
	}
	p.sessionDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncProjectCreated() {
	if p == nil || p.projectEvents == nil {
		return
	}
	p.projectEvents.WithLabelValues("created").Inc()
}

func (p *PrometheusRecorder) IncProjectArchived() {
	if p == nil || p.projectEvents == nil {
		return
	}
	p.projectEvents.WithLabelValues("archived").Inc()
}
