// config/redis.go
package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client
var Ctx = context.Background()

// ConnectRedis initialises the shared redis client used for caching
// authenticated account data. Redis is optional: with no address configured
// or an unreachable server the portal runs without the cache.
func ConnectRedis(addr string) {
	if addr == "" {
		slog.Warn("REDIS_ADDR not set, account caching disabled")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		slog.Error("failed to connect to redis, caching disabled", "error", err)
		RDB = nil
		return
	}

	slog.Info("connected to redis")
}
