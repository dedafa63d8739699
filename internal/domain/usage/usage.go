// Package usage describes assistant token consumption and budget windows.
package usage

import (
	"fmt"
	"time"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// ParsePeriod validates a period name. Empty defaults to PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodDay, nil
	case PeriodDay, PeriodMonth, PeriodTotal:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q (want day, month or total)", s)
}

// Bounds returns the UTC window of period around t. PeriodTotal has none.
func Bounds(p Period, t time.Time) (start, end time.Time) {
	t = t.UTC()
	switch p {
	case PeriodDay:
		start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 1)
	case PeriodMonth:
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	return time.Time{}, time.Time{}
}

// Window is token consumption within one budget period. A zero Limit is unlimited.
type Window struct {
	Limit    int64
	Used     int64
	Requests int64
	Start    time.Time
	End      time.Time
}

// Remaining returns the tokens left, 0 once overspent, -1 when unlimited.
func (w Window) Remaining() int64 {
	if w.Limit <= 0 {
		return -1
	}
	return max(w.Limit-w.Used, 0)
}

// Exhausted reports whether a limited window is spent.
func (w Window) Exhausted() bool {
	return w.Limit > 0 && w.Used >= w.Limit
}

// Snapshot is the budget state of one provider at a point in time.
type Snapshot struct {
	Provider string
	Day      Window
	Month    Window
}

// Window returns the counters behind period. Total reads the monthly
// counters, the widest tracked, without boundaries.
func (s Snapshot) Window(p Period) Window {
	switch p {
	case PeriodDay:
		return s.Day
	case PeriodMonth:
		return s.Month
	}
	w := s.Month
	w.Start, w.End = time.Time{}, time.Time{}
	return w
}

// Report is an assistant usage report for one period.
type Report struct {
	period           Period
	provider         string
	window           Window
	costMillidollars int64
}

// NewReport creates a usage report.
func NewReport(period Period, provider string, w Window, costMillidollars int64) Report {
	return Report{period: period, provider: provider, window: w, costMillidollars: costMillidollars}
}

// Period returns the aggregation granularity.
func (r Report) Period() Period { return r.period }

// Provider returns the language model provider name.
func (r Report) Provider() string { return r.provider }

// Window returns the counters and boundaries of the period.
func (r Report) Window() Window { return r.window }

// CostMillidollars returns the estimated cost (1 USD = 1000).
func (r Report) CostMillidollars() int64 { return r.costMillidollars }

// CostMillidollars converts tokens to millidollars at a per-million-token price.
func CostMillidollars(tokens int64, costPerMillion float64) int64 {
	if tokens <= 0 || costPerMillion <= 0 {
		return 0
	}
	return int64(float64(tokens) * costPerMillion / 1000)
}
