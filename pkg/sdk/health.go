package recipedex

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	healthuc "github.com/kailas-cloud/recipedex/internal/usecase/health"
)

// Names of the checks in HealthStatus.Checks.
const (
	CheckSessionStore = "database"
	CheckRecipeAPI    = "recipe_api"
)

// HealthStatus is the result of Client.Health.
type HealthStatus struct {
	Status string            // "ok", "degraded" or "error"
	Checks map[string]string // check name to "ok" or "error"
}

// Healthy reports whether every check passed.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Failed returns the names of the failing checks in order.
func (h HealthStatus) Failed() []string {
	var out []string
	for _, name := range slices.Sorted(maps.Keys(h.Checks)) {
		if h.Checks[name] != string(healthuc.CheckOK) {
			out = append(out, name)
		}
	}
	return out
}

// Health pings the session store and the recipe API with the client token.
// Failing checks are counted and logged as a failed "health" call.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	h := HealthStatus{
		Status: string(report.Status),
		Checks: make(map[string]string, len(report.Checks)),
	}
	for name, res := range report.Checks {
		h.Checks[name] = string(res)
	}

	var err error
	if failed := h.Failed(); len(failed) > 0 {
		err = fmt.Errorf("failing checks: %s", strings.Join(failed, ", "))
	}
	c.obs.call("health", start, err)
	return h
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
