package utils

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/postboard/config"
)

var redisClient *redis.Client

// InitRedis connects the response cache. With redis disabled the client stays
// nil and every cache helper becomes a no-op.
func InitRedis(cfg config.AppConfig) {
	if !cfg.RedisEnabled {
		redisClient = nil
		return
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// keep the client, reads fall through to the database until redis is back
		Sugar.Warnf("redis ping failed addr=%s err=%v", redisClient.Options().Addr, err)
	}
}

// GetRedis returns the shared client or nil when caching is off.
func GetRedis() *redis.Client {
	return redisClient
}

// CloseRedis releases the client on shutdown.
func CloseRedis() {
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}
