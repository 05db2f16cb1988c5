package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the remote backend failed while the index still serves.
	Degraded Status = "degraded"
	// Unhealthy indicates the index itself failed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index  Pinger
	remote Pinger
}

// New creates a Service. remote can be nil.
func New(index, remote Pinger) *Service {
	return &Service{index: index, remote: remote}
}

// Check pings the in-process index and, when configured, the remote backend.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"index": ping(ctx, s.index)}
	if s.remote != nil {
		checks["redis"] = ping(ctx, s.remote)
	}

	status := Healthy
	switch {
	case checks["index"] == CheckError:
		status = Unhealthy
	case checks["redis"] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func ping(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
