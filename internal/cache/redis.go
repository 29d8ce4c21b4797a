package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Redis keeps fundamentals in a Redis instance with a TTL per entry.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return &Redis{client: client}, nil
}

func capKey(symbol string) string {
	return "fundamentals:cap:" + symbol
}

func (r *Redis) GetMarketCap(ctx context.Context, symbol string) (decimal.Decimal, bool) {
	val, err := r.client.Get(ctx, capKey(symbol)).Result()
	if err != nil {
		return decimal.Zero, false
	}
	marketCap, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false
	}
	return marketCap, true
}

func (r *Redis) SetMarketCap(ctx context.Context, symbol string, marketCap decimal.Decimal, ttl time.Duration) error {
	return r.client.Set(ctx, capKey(symbol), marketCap.String(), ttl).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
