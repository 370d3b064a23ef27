package metrics

import "time"

// Recorder defines observability hooks for timer and project operations.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder zero value (allowing optional injection).
type Recorder interface {
	IncSessionStarted()
	IncSessionStopped()
	IncSessionDiscarded()
	IncSessionRecovered()
	ObserveSessionDuration(d time.Duration)
	IncProjectCreated()
	IncProjectArchived()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncSessionStarted()                    {}
func (NoopRecorder) IncSessionStopped()                    {}
func (NoopRecorder) IncSessionDiscarded()                  {}
func (NoopRecorder) IncSessionRecovered()                  {}
func (NoopRecorder) ObserveSessionDuration(time.Duration)  {}
func (NoopRecorder) IncProjectCreated()                    {}
func (NoopRecorder) IncProjectArchived()                   {}
