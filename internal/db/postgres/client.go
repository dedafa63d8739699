// Package postgres opens the gorm connection pool backing the repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kailas-cloud/gigmarket/internal/db"
)

var _ db.Pinger = (*Client)(nil)

// Config holds connection pool parameters.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowQuery       time.Duration
}

// Client owns the gorm handle and its underlying *sql.DB.
type Client struct {
	gdb *gorm.DB
}

// Open creates the pool. It does not wait for the server; call WaitForReady.
func Open(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, errors.New("dsn is required")
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:                 NewLogger(log, cfg.SlowQuery),
		TranslateError:         true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Client{gdb: gdb}, nil
}

// NewClientForTest wraps an existing gorm handle (test-only).
func NewClientForTest(gdb *gorm.DB) *Client {
	return &Client{gdb: gdb}
}

// DB returns the gorm handle bound to ctx.
func (c *Client) DB(ctx context.Context) *gorm.DB {
	return c.gdb.WithContext(ctx)
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.gdb.DB()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases the pool.
func (c *Client) Close() error {
	sqlDB, err := c.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for postgres: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Migrate creates or updates the tables for every row model.
func (c *Client) Migrate(ctx context.Context) error {
	if err := c.DB(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Wrap converts gorm errors into db sentinels tagged with op.
func Wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &db.Error{Op: op, Err: db.ErrRecordNotFound}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &db.Error{Op: op, Err: db.ErrDuplicate}
	default:
		return &db.Error{Op: op, Err: err}
	}
}
