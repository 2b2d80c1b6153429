package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/chillbroinf-cloud/DepBot/internal/models"
)

// RateLimiter gates wager frequency per account.
type RateLimiter interface {
	Allow(userID int64) error
}

// noopLimiter admits everything; used when no Redis is configured.
type noopLimiter struct{}

func (noopLimiter) Allow(int64) error { return nil }

const (
	rateLimitWindow = time.Minute
	rateLimitMax    = 30
)

// RedisLimiter counts wagers per account in a sliding one-minute
// window. Redis being down never blocks play: errors admit the wager
// and are logged.
type RedisLimiter struct {
	log    *logrus.Logger
	client *redis.Client
}

func NewRedisLimiter(log *logrus.Logger, client *redis.Client) *RedisLimiter {
	return &RedisLimiter{log: log, client: client}
}

// NewRateLimiter returns a Redis-backed limiter when addr is set, the
// no-op limiter otherwise.
func NewRateLimiter(log *logrus.Logger, addr, password string, db int) RateLimiter {
	if addr == "" {
		return noopLimiter{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisLimiter(log, client)
}

func (r *RedisLimiter) Allow(userID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	key := fmt.Sprintf("ratelimit:bets:%d", userID)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		r.log.WithError(err).Warn("rate limiter unavailable, admitting wager")
		return nil
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
			r.log.WithError(err).Warn("failed to set rate limit window")
		}
	}
	if count > rateLimitMax {
		return models.Invalidf("too many bets, slow down for a minute")
	}
	return nil
}
