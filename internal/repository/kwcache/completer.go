// Package kwcache caches language model completions for cacheable tasks.
package kwcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/db"
	"github.com/kailas-cloud/gigmarket/internal/domain"
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedCompleter serves repeated cacheable requests from a key-value store.
type CachedCompleter struct {
	inner      domain.Completer
	store      store
	keyPrefix  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "task" and "result" (hit/miss) and may be nil.
func New(
	inner domain.Completer,
	s store,
	keyPrefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedCompleter {
	return &CachedCompleter{
		inner:      inner,
		store:      s,
		keyPrefix:  keyPrefix + "kw_cache:",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Complete returns a cached reply or calls the inner completer.
// A hit reports Cached and zero tokens.
func (c *CachedCompleter) Complete(
	ctx context.Context, req domain.CompletionRequest,
) (domain.Completion, error) {
	if !req.Cacheable {
		return c.inner.Complete(ctx, req)
	}

	key := c.cacheKey(req)
	if text, ok := c.getFromCache(ctx, key); ok {
		c.incCache(req.Task, "hit")
		return domain.Completion{Text: text, Cached: true}, nil
	}
	c.incCache(req.Task, "miss")

	res, err := c.inner.Complete(ctx, req)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("complete: %w", err)
	}

	// Empty replies are not cached so a transient blank answer is retried.
	if res.Text != "" {
		c.putToCache(ctx, key, res.Text)
	}
	return res, nil
}

func (c *CachedCompleter) incCache(task domain.Task, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(string(task), result).Inc()
	}
}

func (c *CachedCompleter) cacheKey(req domain.CompletionRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Model))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(req.MaxTokens)))
	for _, m := range req.Messages {
		h.Write([]byte{0})
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
	}
	return c.keyPrefix + string(req.Task) + ":" + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedCompleter) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached completion", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedCompleter) putToCache(ctx context.Context, key, text string) {
	if err := c.store.SetWithTTL(ctx, key, []byte(text), c.ttl); err != nil {
		c.logger.Warn("Failed to cache completion", zap.String("key", key), zap.Error(err))
	}
}
