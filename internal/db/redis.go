package db

import (
	"AdminAPI/internal/logger"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RDB is nil when no Redis address is configured; callers treat that as "no shared cache".
var RDB *redis.Client

// InitRedis connects RDB to addr and pings it. A failed ping is returned, but RDB is
// kept: the client reconnects on its own once the server is reachable.
func InitRedis(ctx context.Context, addr string) error {
	if addr == "" {
		logger.Warn("redis_disabled", nil)
		return nil
	}
	RDB = redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis %s: %w", addr, err)
	}
	logger.Info("redis_connected", map[string]any{"addr": addr})
	return nil
}

func CloseRedis() {
	if RDB != nil {
		_ = RDB.Close()
		RDB = nil
	}
}
