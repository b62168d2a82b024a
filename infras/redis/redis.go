// Package redis opens the cache connection shared by the read-through caches and the rate limiter.
package redis

import (
	"context"
	"net"
	"time"

	"donorlink/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 3 * time.Second

func options(cfg *config.Config) *goRedis.Options {
	primary := cfg.Cache.Redis.Primary

	timeout := defaultTimeout
	if primary.TimeoutSeconds > 0 {
		timeout = time.Duration(primary.TimeoutSeconds) * time.Second
	}

	return &goRedis.Options{
		Addr:         net.JoinHostPort(primary.Host, primary.Port),
		Password:     primary.Password,
		DB:           primary.DB,
		PoolSize:     primary.PoolSize,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}

// New connects and pings once. The service refuses to start without its cache
// because the rate limiter and slot caches assume it is there.
func New(cfg *config.Config) *goRedis.Client {
	opts := options(cfg)
	client := goRedis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", opts.Addr).Msg("failed to connect to redis")
	}

	log.Info().
		Str("addr", opts.Addr).
		Int("db", opts.DB).
		Int("pool_size", client.Options().PoolSize).
		Msg("connected to redis")

	return client
}
