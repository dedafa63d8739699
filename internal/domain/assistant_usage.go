package domain

import "context"

type assistantUsageKey struct{}

// AssistantUsage collects language model token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service writes after each completion; the handler reads it for response headers.
type AssistantUsage struct {
	TotalTokens int
	Calls       int
	CacheHits   int
}

// NewContextWithUsage returns a context with an assistant usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *AssistantUsage) {
	u := &AssistantUsage{}
	return context.WithValue(ctx, assistantUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *AssistantUsage {
	u, _ := ctx.Value(assistantUsageKey{}).(*AssistantUsage)
	return u
}

// Record notes one completion and its token cost.
func (u *AssistantUsage) Record(tokens int, cached bool) {
	if u == nil {
		return
	}
	u.Calls++
	u.TotalTokens += tokens
	if cached {
		u.CacheHits++
	}
}

// Used reports whether any completion ran during the request.
func (u *AssistantUsage) Used() bool {
	return u != nil && u.Calls > 0
}
