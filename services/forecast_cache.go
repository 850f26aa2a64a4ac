package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/daybook-app/daybook/model"
)

// ForecastCache keeps recently fetched forecast samples in Redis so
// repeated month-grid and forecast reads don't hammer the provider.
// The cache is optional: a nil *ForecastCache misses on every Get and
// ignores every Set, so callers run uncached without branching.
type ForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewForecastCache(redisURL string, ttl time.Duration) (*ForecastCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &ForecastCache{client: client, ttl: ttl}, nil
}

func forecastKey(city string) string {
	return fmt.Sprintf("forecast:%s", strings.ToLower(city))
}

// Get returns the cached samples for city, or nil on a miss.
func (fc *ForecastCache) Get(ctx context.Context, city string) ([]model.ForecastSample, error) {
	if fc == nil {
		return nil, nil
	}

	data, err := fc.client.Get(ctx, forecastKey(city)).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast from cache: %v", err)
	}

	var samples []model.ForecastSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("failed to unmarshal forecast: %v", err)
	}
	return samples, nil
}

// Set stores samples for city with the configured TTL.
func (fc *ForecastCache) Set(ctx context.Context, city string, samples []model.ForecastSample) error {
	if fc == nil {
		return nil
	}

	data, err := json.Marshal(samples)
	if err != nil {
		return fmt.Errorf("failed to marshal forecast: %v", err)
	}
	if err := fc.client.Set(ctx, forecastKey(city), data, fc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache forecast: %v", err)
	}
	return nil
}

// Close closes the Redis connection.
func (fc *ForecastCache) Close() error {
	if fc == nil {
		return nil
	}
	return fc.client.Close()
}
