package assistant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	domusage "github.com/kailas-cloud/gigmarket/internal/domain/usage"
)

// BudgetAction defines behavior when token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request.
	BudgetActionReject BudgetAction = "reject"
)

// persistTimeout bounds the write-behind of one Record.
const persistTimeout = 2 * time.Second

// BudgetStore persists budget counters across restarts and replicas.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// counter tracks one budget period.
type counter struct {
	period   domusage.Period
	limit    int64
	used     int64
	requests int64
	start    time.Time
	end      time.Time
}

// roll starts a fresh period once now leaves the current one.
func (c *counter) roll(now time.Time) {
	if !now.Before(c.start) && now.Before(c.end) {
		return
	}
	c.start, c.end = domusage.Bounds(c.period, now)
	c.used, c.requests = 0, 0
}

func (c *counter) window() domusage.Window {
	return domusage.Window{Limit: c.limit, Used: c.used, Requests: c.requests, Start: c.start, End: c.end}
}

// BudgetTracker enforces daily and monthly token limits for one provider.
// Check reads memory only; Record updates memory first and then writes
// through to the optional store.
type BudgetTracker struct {
	mu        sync.Mutex
	provider  string
	keyPrefix string
	action    BudgetAction
	day       counter
	month     counter
	now       func() time.Time
	store     BudgetStore
	logger    *zap.Logger
}

// NewBudgetTracker creates a tracker. A zero limit disables that period's cap.
func NewBudgetTracker(
	provider, keyPrefix string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	b := &BudgetTracker{
		provider:  provider,
		keyPrefix: keyPrefix,
		action:    action,
		day:       counter{period: domusage.PeriodDay, limit: dailyLimit},
		month:     counter{period: domusage.PeriodMonth, limit: monthlyLimit},
		now:       time.Now,
		logger:    logger,
	}
	b.rollAll()
	return b
}

// WithStore attaches a store and seeds the counters from it. Load failures
// are logged and leave the counters at zero.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	b.rollAll()
	for _, c := range []*counter{&b.day, &b.month} {
		key := b.key(c)
		val, err := store.Get(ctx, key)
		if err != nil {
			b.logger.Warn("Failed to load token budget", zap.String("key", key), zap.Error(err))
			continue
		}
		c.used = val
	}

	b.logger.Info("Token budget loaded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used),
		zap.Int64("monthly_used", b.month.used),
	)
	return b
}

// key is the store key of c's current period, e.g. gigmarket:budget:openai:daily:2026-10-19.
func (b *BudgetTracker) key(c *counter) string {
	if c.period == domusage.PeriodDay {
		return fmt.Sprintf("%sbudget:%s:daily:%s", b.keyPrefix, b.provider, c.start.Format("2006-01-02"))
	}
	return fmt.Sprintf("%sbudget:%s:monthly:%s", b.keyPrefix, b.provider, c.start.Format("2006-01"))
}

func (b *BudgetTracker) rollAll() {
	now := b.now().UTC()
	b.day.roll(now)
	b.month.roll(now)
}

// Check reports whether a new completion may run. With BudgetActionWarn an
// exhausted budget is only logged.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollAll()
	if !b.day.window().Exhausted() && !b.month.window().Exhausted() {
		return nil
	}
	if b.action == BudgetActionReject {
		return domain.ErrAssistantQuotaExceeded
	}

	b.logger.Warn("Token budget exceeded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.used),
		zap.Int64("daily_limit", b.day.limit),
		zap.Int64("monthly_used", b.month.used),
		zap.Int64("monthly_limit", b.month.limit),
	)
	return nil
}

// Record counts one completion and its tokens.
func (b *BudgetTracker) Record(tokens int64) {
	b.mu.Lock()
	b.rollAll()
	keys := make([]string, 0, 2)
	for _, c := range []*counter{&b.day, &b.month} {
		c.used += tokens
		c.requests++
		keys = append(keys, b.key(c))
	}
	store := b.store
	b.mu.Unlock()

	if store == nil || tokens <= 0 {
		return
	}

	// Detached from the request so a client disconnect cannot drop the count.
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	for _, key := range keys {
		if err := store.IncrBy(ctx, key, tokens); err != nil {
			b.logger.Warn("Failed to persist token budget", zap.String("key", key), zap.Error(err))
		}
	}
}

// Snapshot returns the current daily and monthly windows.
func (b *BudgetTracker) Snapshot() domusage.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rollAll()
	return domusage.Snapshot{Provider: b.provider, Day: b.day.window(), Month: b.month.window()}
}
