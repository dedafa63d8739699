package assistant

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	domusage "github.com/kailas-cloud/gigmarket/internal/domain/usage"
	"github.com/kailas-cloud/gigmarket/internal/metrics"
)

// BudgetChecker is the local interface for budget enforcement.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	Snapshot() domusage.Snapshot
}

// InstrumentedCompleter wraps a Completer with budget enforcement, request
// usage accounting and logging. Transport metrics live in the provider adapters.
type InstrumentedCompleter struct {
	inner    domain.Completer
	provider string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedCompleter wraps a completer. budget may be nil.
func NewInstrumentedCompleter(
	inner domain.Completer, provider string, budget BudgetChecker, logger *zap.Logger,
) *InstrumentedCompleter {
	return &InstrumentedCompleter{inner: inner, provider: provider, budget: budget, logger: logger}
}

// Complete checks the budget, delegates, and records usage.
func (c *InstrumentedCompleter) Complete(
	ctx context.Context, req domain.CompletionRequest,
) (domain.Completion, error) {
	if c.budget != nil {
		if err := c.budget.Check(ctx); err != nil {
			c.logger.Error("Budget exceeded",
				zap.String("provider", c.provider),
				zap.String("task", string(req.Task)),
				zap.Error(err),
			)
			return domain.Completion{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	res, err := c.inner.Complete(ctx, req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Completion failed",
			zap.String("provider", c.provider),
			zap.String("model", req.Model),
			zap.String("task", string(req.Task)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Completion{}, fmt.Errorf("complete %s: %w", req.Task, err)
	}

	domain.UsageFromContext(ctx).Record(res.TotalTokens, res.Cached)

	if c.budget != nil && res.TotalTokens > 0 {
		c.budget.Record(int64(res.TotalTokens))
		snap := c.budget.Snapshot()
		remaining := metrics.AssistantBudgetTokensRemaining
		remaining.WithLabelValues(c.provider, "daily").Set(float64(snap.Day.Remaining()))
		remaining.WithLabelValues(c.provider, "monthly").Set(float64(snap.Month.Remaining()))
	}

	c.logger.Debug("Completion finished",
		zap.String("provider", c.provider),
		zap.String("model", req.Model),
		zap.String("task", string(req.Task)),
		zap.Duration("duration", duration),
		zap.Bool("cached", res.Cached),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res, nil
}
