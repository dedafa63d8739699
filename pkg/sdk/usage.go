package gigmarket

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/gigmarket/internal/domain/usage"
)

// UsagePeriod selects the window of a usage report.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
	PeriodTotal UsagePeriod = "total" // monthly counters, no boundaries
)

// UsageReport is the assistant token consumption of this client.
// PeriodStart and PeriodEnd are zero for PeriodTotal.
type UsageReport struct {
	Period      UsagePeriod
	Provider    string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Requests    int64
	Tokens      int64
	Budget      BudgetStatus
}

// BudgetStatus is the token quota. TokensRemaining is -1 when unlimited.
type BudgetStatus struct {
	TokensLimit     int64
	TokensRemaining int64
	IsExhausted     bool
	ResetsAt        time.Time
}

// Usage reports tokens spent on keyword extraction in period.
// Reports come from in-memory counters and cannot fail.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer c.obs.observe("usage", start, nil)

	report := c.usageSvc.GetReport(ctx, domusage.Period(period))
	w := report.Window()
	return UsageReport{
		Period:      UsagePeriod(report.Period()),
		Provider:    report.Provider(),
		PeriodStart: w.Start,
		PeriodEnd:   w.End,
		Requests:    w.Requests,
		Tokens:      w.Used,
		Budget: BudgetStatus{
			TokensLimit:     w.Limit,
			TokensRemaining: w.Remaining(),
			IsExhausted:     w.Exhausted(),
			ResetsAt:        w.End,
		},
	}
}

type usageUseCase interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}
