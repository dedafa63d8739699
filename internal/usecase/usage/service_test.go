package usage

import (
	"context"
	"testing"
	"time"

	domusage "github.com/kailas-cloud/gigmarket/internal/domain/usage"
)

// --- BudgetReader mock ---

type mockBudgetReader struct {
	snap  domusage.Snapshot
	calls int
}

func (m *mockBudgetReader) Snapshot() domusage.Snapshot {
	m.calls++
	return m.snap
}

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func testSnapshot() domusage.Snapshot {
	dayStart, dayEnd := domusage.Bounds(domusage.PeriodDay, testNow)
	monthStart, monthEnd := domusage.Bounds(domusage.PeriodMonth, testNow)
	return domusage.Snapshot{
		Provider: "openai",
		Day:      domusage.Window{Limit: 10000, Used: 3000, Requests: 12, Start: dayStart, End: dayEnd},
		Month: domusage.Window{
			Limit: 100_000_000, Used: 80_000_000, Requests: 4000, Start: monthStart, End: monthEnd,
		},
	}
}

func TestGetReport_Day(t *testing.T) {
	br := &mockBudgetReader{snap: testSnapshot()}
	r := New(br, 0.15).GetReport(context.Background(), domusage.PeriodDay)

	if r.Period() != domusage.PeriodDay || r.Provider() != "openai" {
		t.Errorf("report = %q/%q", r.Period(), r.Provider())
	}
	w := r.Window()
	if w.Used != 3000 || w.Requests != 12 || w.Remaining() != 7000 || w.Exhausted() {
		t.Errorf("window = %+v", w)
	}
	if w.Start != time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC) {
		t.Errorf("start = %v", w.Start)
	}
	// 3000 tokens at $0.15 per million rounds down to zero.
	if r.CostMillidollars() != 0 {
		t.Errorf("cost = %d, want 0", r.CostMillidollars())
	}
	if br.calls != 1 {
		t.Errorf("expected one snapshot, got %d", br.calls)
	}
}

func TestGetReport_Month(t *testing.T) {
	r := New(&mockBudgetReader{snap: testSnapshot()}, 0.5).GetReport(context.Background(), domusage.PeriodMonth)

	w := r.Window()
	if w.End != time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("end = %v", w.End)
	}
	if w.Remaining() != 20_000_000 {
		t.Errorf("remaining = %d", w.Remaining())
	}
	if r.CostMillidollars() != 40000 {
		t.Errorf("cost = %d, want 40000", r.CostMillidollars())
	}
}

func TestGetReport_TotalHasNoBounds(t *testing.T) {
	snap := testSnapshot()
	snap.Month.Used = snap.Month.Limit
	r := New(&mockBudgetReader{snap: snap}, 0).GetReport(context.Background(), domusage.PeriodTotal)

	w := r.Window()
	if !w.Start.IsZero() || !w.End.IsZero() {
		t.Errorf("expected no boundaries for total, got [%v, %v)", w.Start, w.End)
	}
	if !w.Exhausted() {
		t.Error("budget should be exhausted")
	}
}

func TestGetReport_NilBudgetReader(t *testing.T) {
	svc := New(nil, 1)
	svc.now = func() time.Time { return testNow }
	r := svc.GetReport(context.Background(), domusage.PeriodDay)

	w := r.Window()
	if w.Limit != 0 || w.Remaining() != -1 || w.Exhausted() {
		t.Errorf("expected an unlimited window, got %+v", w)
	}
	if w.Start != time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC) {
		t.Errorf("start = %v", w.Start)
	}
	if r.Provider() != "" {
		t.Errorf("expected empty provider, got %q", r.Provider())
	}
}
