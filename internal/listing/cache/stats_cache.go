package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"nammasev/internal/listing/models"
	"nammasev/internal/platform/metrics"
	"nammasev/internal/platform/redis"
)

const statsKey = "nammasev:public:stats"

// StatsCache is a Redis read-through cache for the public aggregate. A
// short TTL bounds staleness; accepted transitions and publishes
// invalidate it eagerly so the transparency page reacts immediately.
//
// Cache failures are soft: a miss is returned and the caller recomputes.
type StatsCache struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*StatsCache)

func WithLogger(logger *slog.Logger) Option {
	return func(c *StatsCache) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *StatsCache) {
		c.metrics = m
	}
}

func New(client *redis.Client, ttl time.Duration, opts ...Option) *StatsCache {
	c := &StatsCache{client: client, ttl: ttl, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *StatsCache) Get(ctx context.Context) (models.Stats, bool) {
	if c.client == nil {
		return models.Stats{}, false
	}
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		c.miss()
		return models.Stats{}, false
	}
	var stats models.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.logger.WarnContext(ctx, "corrupt stats cache entry, dropping", "error", err)
		_ = c.client.Del(ctx, statsKey).Err()
		c.miss()
		return models.Stats{}, false
	}
	if c.metrics != nil {
		c.metrics.StatsCacheHits.Inc()
	}
	return stats, true
}

func (c *StatsCache) Set(ctx context.Context, stats models.Stats) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "stats cache write failed", "error", err)
	}
}

// Invalidate drops the cached aggregate. Called after accepted
// transitions and publishes.
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "stats cache invalidation failed", "error", err)
	}
}

func (c *StatsCache) miss() {
	if c.metrics != nil {
		c.metrics.StatsCacheMisses.Inc()
	}
}
