package kwcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/db"
	"github.com/kailas-cloud/gigmarket/internal/domain"
)

type mockCompleter struct {
	result domain.Completion
	err    error
	calls  int
}

func (m *mockCompleter) Complete(_ context.Context, _ domain.CompletionRequest) (domain.Completion, error) {
	m.calls++
	return m.result, m.err
}

type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedCompleter(t *testing.T, inner *mockCompleter) (*CachedCompleter, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, "gigmarket:", time.Hour, nil, zap.NewNop()), ms
}

func keywordRequest(prompt string) domain.CompletionRequest {
	return domain.CompletionRequest{
		Task:      domain.TaskKeywords,
		Model:     "gpt-4o-mini",
		MaxTokens: 50,
		Cacheable: true,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: "extract keywords"},
			{Role: domain.RoleUser, Content: prompt},
		},
	}
}
