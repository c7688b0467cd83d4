// Package valkey backs the embedding cache with Valkey through rueidis.
package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/dinemite/internal/db"
)

var _ db.Store = (*Store)(nil)

const (
	clientName    = "dinemite"
	firstRetry    = 50 * time.Millisecond
	maxRetryDelay = time.Second
)

// Config holds connection parameters. A single address connects directly,
// several addresses are treated as cluster seeds by rueidis.
type Config struct {
	Addrs       []string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Store is a db.Store holding cached provider vectors.
type Store struct {
	client rueidis.Client
}

// NewStore connects to Valkey. Client-side caching stays off: cached vectors
// are read once per query text and carry their own TTL.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("valkey: at least one address is required")
	}

	opt := rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   clientName,
		DisableCache: true,
	}
	if cfg.DialTimeout > 0 {
		opt.Dialer.Timeout = cfg.DialTimeout
	}

	client, err := rueidis.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("valkey: connect %v: %w", cfg.Addrs, err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity; /health reports its result as the cache check.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() { s.client.Close() }

// WaitForReady pings until the cache answers, backing off between attempts.
// On timeout the last ping error is returned alongside the context error.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := firstRetry
	for attempt := 1; ; attempt++ {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("valkey not ready after %d attempts: %w: %w", attempt, ctx.Err(), err)
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
