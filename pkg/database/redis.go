package database

import (
	"context"
	"fmt"
	"time"

	"changeready_go/pkg/log"

	"github.com/go-redis/redis/v8"
)

// NewRedis 连接 Redis 并 Ping 一次，失败时返回错误由调用方决定是否退出。
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	log.Info("Redis client connected successfully")
	return client, nil
}
