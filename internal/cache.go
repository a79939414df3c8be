// Copyright 2023 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package internal

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// TieredCache keeps values in memory and, when configured, mirrors them to a
// redis sentinel setup so that a restarted instance can serve the last value.
type TieredCache struct {
	rdb             *redis.Client
	mem             *cache.Cache
	redisExpiration time.Duration
}

// NewMemcache returns a TieredCache without redis.
func NewMemcache(expiration time.Duration) *TieredCache {
	return &TieredCache{
		mem: cache.New(expiration, 2*expiration),
	}
}

// NewTieredCache connects to the redis sentinels. With dryRun set or no URI
// given only the memory tier is used.
func NewTieredCache(redisURI, redisURI2, redisURI3, redisPassword string, redisDB int, dryRun bool, expiration time.Duration) *TieredCache {
	c := NewMemcache(expiration)
	if dryRun {
		zap.S().Infof("Running cache in DRY_RUN mode. Only the memory tier is used")
		return c
	}
	if redisURI == "" {
		zap.S().Debugf("No redis configured, only the memory tier is used")
		return c
	}

	var sentinels []string
	for _, uri := range []string{redisURI, redisURI2, redisURI3} {
		if uri != "" {
			sentinels = append(sentinels, uri)
		}
	}
	var failOverOptions = redis.FailoverOptions{
		MasterName:       "mymaster",
		SentinelAddrs:    sentinels,
		SentinelPassword: redisPassword,
		Password:         redisPassword,
		DB:               redisDB,
	}
	zap.S().Debugf("Initializing redis cache with sentinels %v", sentinels)

	c.rdb = redis.NewFailoverClient(&failOverOptions)
	c.redisExpiration = 12 * time.Hour
	return c
}

// IsRedisAvailable pings redis.
func (c *TieredCache) IsRedisAvailable(ctx context.Context) bool {
	if c.rdb == nil {
		return false
	}
	timeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	statusCmd := c.rdb.Ping(timeout)
	if statusCmd != nil && statusCmd.Val() == "PONG" {
		return true
	}
	zap.S().Debugf("Redis Error: %s", statusCmd)
	return false
}

// Get attempts the memory tier first and falls back to redis.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if value, found := c.mem.Get(key); found {
		b, ok := value.([]byte)
		return b, ok
	}
	if c.rdb == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.S().Warnf("Unable to read %s from redis: %s", key, err)
		}
		return nil, false
	}
	c.mem.SetDefault(key, value)
	return value, true
}

// Set writes both tiers. Redis errors are logged, never returned.
func (c *TieredCache) Set(ctx context.Context, key string, value []byte) {
	c.mem.SetDefault(key, value)
	if c.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.rdb.Set(ctx, key, value, c.redisExpiration).Err(); err != nil {
		zap.S().Warnf("Unable to mirror %s to redis: %s", key, err)
	}
}

// Close releases the redis client.
func (c *TieredCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
