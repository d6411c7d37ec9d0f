package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
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
	db       DBPinger
	upstream UpstreamPinger
	token    string
}

// New creates a Service. upstream is nil when the API probe is disabled.
func New(db DBPinger, upstream UpstreamPinger, token string) *Service {
	return &Service{db: db, upstream: upstream, token: token}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = CheckError
	} else {
		checks["database"] = CheckOK
	}

	if s.upstream != nil {
		if err := s.upstream.Ping(ctx, s.token); err != nil {
			checks["recipe_api"] = CheckError
		} else {
			checks["recipe_api"] = CheckOK
		}
	}

	status := Healthy
	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
