package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yatraworks/yatra/config"
	"github.com/yatraworks/yatra/internal/domain"
)

// RedisCache holds short-lived read models: the admin booking stats and
// per-destination rating summaries. Both are best-effort; a miss or a Redis
// failure falls through to Postgres.
type RedisCache struct {
	client   *redis.Client
	statsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, statsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		statsTTL: statsTTL,
	}
}

func (c *RedisCache) GetBookingStats(ctx context.Context) ([]domain.StatusStat, error) {
	data, err := c.client.Get(ctx, statsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var stats []domain.StatusStat
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *RedisCache) SetBookingStats(ctx context.Context, stats []domain.StatusStat) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(), payload, c.statsTTL).Err()
}

func (c *RedisCache) GetRatingSummary(ctx context.Context, destinationID string) (*domain.RatingSummary, error) {
	data, err := c.client.Get(ctx, ratingKey(destinationID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var summary domain.RatingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *RedisCache) SetRatingSummary(ctx context.Context, summary *domain.RatingSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ratingKey(summary.DestinationID), payload, c.statsTTL).Err()
}

func statsKey() string {
	return "cache:booking_stats"
}

func ratingKey(destinationID string) string {
	return "cache:ratings:" + destinationID
}
