package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Lidan4315/Ideku-sub000/pkg/config"
	"github.com/go-redis/redis/v8"
)

var (
	// Client 全局 Redis 客户端（nil表示Redis未启用）
	Client *redis.Client

	isRedisEnabled bool
)

// Init 初始化 Redis 连接
// 如果Redis未启用或连接失败，会优雅降级，不影响主服务启动
func Init(cfg *config.RedisConfig) error {
	if !cfg.Enabled {
		log.Println("[Redis] Redis is disabled in config - using database mode")
		isRedisEnabled = false
		return nil
	}

	cfg.SetDefaults()

	Client = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  time.Duration(cfg.ConnectTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	// 测试连接（带超时）
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	if err := Client.Ping(ctx).Err(); err != nil {
		Client.Close()
		Client = nil
		isRedisEnabled = false
		return fmt.Errorf("failed to connect to Redis at %s:%d: %w (will use database mode)", cfg.Host, cfg.Port, err)
	}

	isRedisEnabled = true
	log.Printf("[Redis] Connected to Redis at %s:%d (DB: %d, PoolSize: %d)",
		cfg.Host, cfg.Port, cfg.DB, cfg.PoolSize)
	return nil
}

// Close 关闭 Redis 连接
func Close() error {
	if Client != nil {
		err := Client.Close()
		Client = nil
		isRedisEnabled = false
		return err
	}
	return nil
}

// IsEnabled 检查 Redis 是否已启用且连接正常
func IsEnabled() bool {
	return Client != nil && isRedisEnabled
}

// GetClient 获取Redis客户端（如果未启用则返回nil）
func GetClient() *redis.Client {
	return Client
}

// CacheGet 读取缓存字符串，未启用或未命中返回空串
func CacheGet(ctx context.Context, key string) string {
	if !IsEnabled() {
		return ""
	}
	val, err := Client.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// CacheSet 写入缓存字符串，未启用时静默跳过
func CacheSet(ctx context.Context, key, val string, ttl time.Duration) {
	if !IsEnabled() {
		return
	}
	Client.Set(ctx, key, val, ttl)
}
