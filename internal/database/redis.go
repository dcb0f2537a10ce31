package database

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects to the Redis instance backing the rate limiter.
func OpenRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
