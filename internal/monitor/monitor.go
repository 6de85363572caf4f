// Package monitor tracks backend reachability via the health endpoint.
package monitor

import "context"

// Status is the tri-state backend reachability, derived solely from the most
// recent probe outcome.
type Status int

const (
	// StatusChecking means no probe has completed yet.
	StatusChecking Status = iota
	// StatusConnected means the last probe reported a healthy backend.
	StatusConnected
	// StatusError means the last probe failed or reported unhealthy.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusError:
		return "error"
	default:
		return "checking"
	}
}

// HealthChecker is the probe dependency; *api.Client satisfies it.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// Outcome is the result of one probe invocation. Detail carries the
// normalized failure text when Status is StatusError.
type Outcome struct {
	Status Status
	Detail string
}

// Monitor wraps a health checker and remembers the latest outcome.
// Submission gating reads Last(); each Probe call produces exactly one
// Outcome so retry probes always report, even when nothing changed.
type Monitor struct {
	checker HealthChecker
	last    Status
}

// New creates a monitor in the checking state.
func New(checker HealthChecker) *Monitor {
	return &Monitor{checker: checker, last: StatusChecking}
}

// Last returns the most recent probe status.
func (m *Monitor) Last() Status { return m.last }

// Probe runs one health check and records its outcome.
func (m *Monitor) Probe(ctx context.Context) Outcome {
	if err := m.checker.CheckHealth(ctx); err != nil {
		m.last = StatusError
		return Outcome{Status: StatusError, Detail: err.Error()}
	}
	m.last = StatusConnected
	return Outcome{Status: StatusConnected}
}
