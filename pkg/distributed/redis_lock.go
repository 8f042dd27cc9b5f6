package distributed

import (
	"context"
	"fmt"
	"time"

	"github.com/Lidan4315/Ideku-sub000/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisLock Redis 分布式锁，多实例部署时用于互斥后台任务
// （比如超时失活扫描，同一轮只允许一个实例执行）
type RedisLock struct {
	client   *redis.Client
	key      string
	value    string
	expiry   time.Duration
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewRedisLock 创建分布式锁
// client 为 nil（Redis 未启用）时退化为单机模式：TryLock 总是成功
func NewRedisLock(client *redis.Client, key string, expiry time.Duration) *RedisLock {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisLock{
		client:   client,
		key:      key,
		value:    uuid.NewString(), // 锁值唯一，防止释放他人持有的锁
		expiry:   expiry,
		ctx:      ctx,
		cancelFn: cancel,
	}
}

// TryLock 尝试获取锁（非阻塞），获取到后自动续期直到 Unlock
func (l *RedisLock) TryLock() (bool, error) {
	if l.client == nil {
		// 单机模式，无需互斥
		return true, nil
	}

	acquired, err := l.client.SetNX(l.ctx, l.key, l.value, l.expiry).Result()
	if err != nil {
		return false, fmt.Errorf("获取分布式锁失败: %w", err)
	}
	if acquired {
		go l.autoRenew()
	}
	return acquired, nil
}

// Unlock 释放锁，只有持有者能释放
func (l *RedisLock) Unlock() error {
	defer l.cancelFn()

	if l.client == nil {
		return nil
	}

	script := `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`
	// 解锁用独立上下文，保证在停止续期前完成
	result, err := l.client.Eval(context.Background(), script, []string{l.key}, l.value).Result()
	if err != nil {
		return fmt.Errorf("释放分布式锁失败: %w", err)
	}
	if result == int64(0) {
		logger.Warnf("分布式锁 %s 已不由本实例持有", l.key)
	}
	return nil
}

// autoRenew 每 expiry/3 续期一次，锁丢失或 Unlock 后停止
func (l *RedisLock) autoRenew() {
	ticker := time.NewTicker(l.expiry / 3)
	defer ticker.Stop()

	script := `
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("expire", KEYS[1], ARGV[2])
		else
			return 0
		end
	`
	for {
		select {
		case <-ticker.C:
			result, err := l.client.Eval(l.ctx, script, []string{l.key}, l.value, int(l.expiry.Seconds())).Result()
			if err != nil {
				logger.Errorf("分布式锁 %s 续期失败: %v", l.key, err)
				return
			}
			if result == int64(0) {
				logger.Warnf("分布式锁 %s 已丢失，停止续期", l.key)
				return
			}
		case <-l.ctx.Done():
			return
		}
	}
}
