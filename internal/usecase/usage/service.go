// Package usage reports assistant token consumption against the configured budget.
package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/gigmarket/internal/domain/usage"
)

// Service builds usage reports from the budget tracker.
type Service struct {
	br             BudgetReader
	costPerMillion float64
	now            func() time.Time
}

// New creates a Service. A nil br reports an unlimited, unused budget.
func New(br BudgetReader, costPerMillion float64) *Service {
	return &Service{br: br, costPerMillion: costPerMillion, now: time.Now}
}

// GetReport returns consumption for period along with the cost at the configured price.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	if s.br == nil {
		start, end := domusage.Bounds(period, s.now())
		return domusage.NewReport(period, "", domusage.Window{Start: start, End: end}, 0)
	}

	snap := s.br.Snapshot()
	w := snap.Window(period)
	return domusage.NewReport(period, snap.Provider, w, domusage.CostMillidollars(w.Used, s.costPerMillion))
}
