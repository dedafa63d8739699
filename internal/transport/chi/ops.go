package chi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	domusage "github.com/kailas-cloud/gigmarket/internal/domain/usage"
	healthuc "github.com/kailas-cloud/gigmarket/internal/usecase/health"
)

// GetUsage handles GET /usage?period=day|month|total.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	var raw *string
	if err := bindQuery(r, "period", &raw); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	period, err := domusage.ParsePeriod(deref(raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, usageResponseOf(s.usage.GetReport(r.Context(), period)))
}

func usageResponseOf(report domusage.Report) UsageResponse {
	win := report.Window()
	resp := UsageResponse{
		Period:        string(report.Period()),
		Provider:      report.Provider(),
		PeriodStartAt: timeOrNil(win.Start),
		PeriodEndAt:   timeOrNil(win.End),
		Requests:      win.Requests,
		Tokens:        win.Used,
		Budget: Budget{
			TokensLimit:     win.Limit,
			TokensRemaining: win.Remaining(),
			IsExhausted:     win.Exhausted(),
			ResetsAt:        timeOrNil(win.End),
		},
	}
	if cost := report.CostMillidollars(); cost > 0 {
		resp.CostMillidollars = &cost
	}
	return resp
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}

// HealthCheck handles GET /health. A degraded report answers 503 so load
// balancers drain the instance.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	resp := HealthResponse{
		Status:  string(report.Status),
		Version: s.version,
		Checks:  make(map[string]string, len(report.Checks)),
	}
	for name, res := range report.Checks {
		resp.Checks[name] = string(res)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
