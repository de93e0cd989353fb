// Package redis provides the Redis client wrapper and the JSON cache used to
// keep provider fetches inside the public APIs' rate-limit budget.  Cached
// batches are advisory: a cache outage degrades to live fetching, never to a
// failed analysis run.
package redis

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/helix-insights/madison/internal/config"
	"github.com/helix-insights/madison/internal/infrastructure/monitoring/logging"
	"github.com/helix-insights/madison/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeInternal, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeCacheError, "redis connection failed")
)

// Client wraps a go-redis client with lifecycle management.
type Client struct {
	rdb    goredis.UniversalClient
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects to the configured standalone Redis instance and verifies
// the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, ErrConnectionFailed.WithCause(err).WithDetail("addr=" + cfg.Addr)
	}

	log.Info("redis connected", logging.String("addr", cfg.Addr), logging.Int("db", cfg.DB))
	return &Client{rdb: rdb, logger: log}, nil
}

// RDB returns the underlying go-redis client, or ErrClientClosed after Close.
func (c *Client) RDB() (goredis.UniversalClient, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	return c.rdb, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	rdb, err := c.RDB()
	if err != nil {
		return err
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return ErrConnectionFailed.WithCause(err)
	}
	return nil
}

// Close releases the connection pool.  Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rdb.Close()
}

// healthCheckInterval is how often StartHealthLoop pings the server.
const healthCheckInterval = 30 * time.Second

// StartHealthLoop pings the server periodically until ctx is cancelled,
// logging failures.  Intended to surface cache outages in the logs before a
// run hits them.
func (c *Client) StartHealthLoop(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(healthCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Ping(ctx); err != nil {
					c.logger.Warn("redis health check failed", logging.Err(err))
				}
			}
		}
	}()
}
