// Package redis opens the go-redis client used for sessions, OTP codes and
// the rate limiter storage.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/hospital_backend/config"
)

const (
	defaultPoolSize     = 10
	defaultMinIdleConns = 2
)

// New connects and pings. A failed ping is returned as an error so startup
// stops before the HTTP server binds.
func New(cfg config.RedisConfig) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is empty")
	}

	rdb := goredis.NewClient(Options(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), seconds(cfg.DialTimeoutSeconds, 5))
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// Options maps the central config onto go-redis options, filling defaults
// for zero values.
func Options(cfg config.RedisConfig) *goredis.Options {
	opts := &goredis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     defaultPoolSize,
		MinIdleConns: defaultMinIdleConns,
		DialTimeout:  seconds(cfg.DialTimeoutSeconds, 5),
		ReadTimeout:  seconds(cfg.ReadTimeoutSeconds, 3),
		WriteTimeout: seconds(cfg.WriteTimeoutSeconds, 3),
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	return opts
}

func seconds(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Second
}
