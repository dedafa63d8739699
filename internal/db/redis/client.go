// Package redis backs the keyword cache and the assistant budget counters.
package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/gigmarket/internal/db"
	"github.com/kailas-cloud/gigmarket/internal/metrics"
)

var _ db.Cache = (*Store)(nil)

const (
	defaultClientName   = "gigmarket"
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// Config holds connection parameters. Zero timeouts use the defaults above.
type Config struct {
	Addrs        []string
	Username     string
	Password     string
	DB           int
	ClientName   string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// Store implements db.Cache via rueidis. Every command is timed into the
// gigmarket_cache_* metrics.
type Store struct {
	client rueidis.Client
}

// NewStore creates a Redis store. Client-side caching stays off: cached
// keywords and budget counters are read once per request at most.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.ClientName == "" {
		cfg.ClientName = defaultClientName
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:      cfg.Addrs,
		Username:         cfg.Username,
		Password:         cfg.Password,
		SelectDB:         cfg.DB,
		ClientName:       cfg.ClientName,
		Dialer:           net.Dialer{Timeout: cfg.DialTimeout},
		ConnWriteTimeout: cfg.WriteTimeout,
		DisableCache:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, db.OpPing, s.b().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until Redis answers or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for redis: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) do(ctx context.Context, op string, cmd rueidis.Completed) rueidis.RedisResult {
	start := time.Now()
	res := s.client.Do(ctx, cmd)
	observe(op, start, res.Error())
	return res
}

func (s *Store) doMulti(ctx context.Context, op string, cmds ...rueidis.Completed) []rueidis.RedisResult {
	start := time.Now()
	res := s.client.DoMulti(ctx, cmds...)
	var err error
	for _, r := range res {
		if err = r.Error(); err != nil {
			break
		}
	}
	observe(op, start, err)
	return res
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}

// observe records a command. A nil reply is a cache miss, not a failure.
func observe(op string, start time.Time, err error) {
	metrics.CacheCommandDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil && !rueidis.IsRedisNil(err) {
		metrics.CacheCommandErrorsTotal.WithLabelValues(op).Inc()
	}
}
