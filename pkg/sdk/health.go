package gigmarket

import (
	"context"

	healthuc "github.com/kailas-cloud/gigmarket/internal/usecase/health"
)

// HealthStatus is the state of the client's dependencies.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // "database", "cache", "assistant" → "ok" or "error"
}

// Healthy reports whether every dependency answered.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Failing lists the components whose check failed.
func (h HealthStatus) Failing() []string {
	var out []string
	for name, res := range h.Checks {
		if res == string(healthuc.CheckError) {
			out = append(out, name)
		}
	}
	return out
}

// Health probes Postgres, Redis when configured and the model provider.
// Provider results are reused for healthuc.DefaultAssistantTTL.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	h := HealthStatus{Status: string(report.Status), Checks: make(map[string]string, len(report.Checks))}
	for name, res := range report.Checks {
		h.Checks[name] = string(res)
	}
	return h
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
