package redisstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"realtime-chat/internal/repository"
)

// RedisStateRepository 是 StateRepository 接口的 Redis 实现
type RedisStateRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateRepository 创建 RedisStateRepository 实例
func NewRedisStateRepository(client *redis.Client, keyPrefix string) *RedisStateRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisStateRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "chat:"
	}
	return &RedisStateRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

var _ repository.StateRepository = (*RedisStateRepository)(nil)

// --- Key Generation Helpers ---

func (r *RedisStateRepository) rateLimitKey(key string) string {
	return fmt.Sprintf("%sratelimit:%s", r.keyPrefix, key)
}

func (r *RedisStateRepository) fanoutChannel() string {
	return r.keyPrefix + "fanout"
}

// rateLimitScript 只在窗口内第一次计数时设置过期时间，窗口到期后计数归零。
var rateLimitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// CheckRateLimit 固定窗口计数，返回 true 表示超限。
func (r *RedisStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := r.rateLimitKey(key)

	count, err := rateLimitScript.Run(ctx, r.client, []string{fullKey}, window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("redis: rate limit script for %s: %w", fullKey, err)
	}
	return count > int64(limit), nil
}

// PublishFanout 将广播发布到共享频道
func (r *RedisStateRepository) PublishFanout(ctx context.Context, fanout repository.Fanout) error {
	payload, err := json.Marshal(fanout)
	if err != nil {
		return fmt.Errorf("redis: marshal fanout: %w", err)
	}
	channel := r.fanoutChannel()
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"channel": channel,
			"room_id": fanout.RoomID,
		}).WithError(err).Error("Redis Publish failed")
		return fmt.Errorf("redis: publish fanout to %s: %w", channel, err)
	}
	return nil
}

// SubscribeFanout 阻塞读取共享频道，直到 ctx 结束或订阅被关闭。
func (r *RedisStateRepository) SubscribeFanout(ctx context.Context, handle func(repository.Fanout)) error {
	channel := r.fanoutChannel()
	pubsub := r.client.Subscribe(ctx, channel)
	defer pubsub.Close()

	// 等待订阅确认
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis: subscribe %s: %w", channel, err)
	}
	logCtx := logrus.WithField("channel", channel)
	logCtx.Info("Subscribed to fanout channel")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			logCtx.Info("Fanout subscription stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("redis: fanout channel closed")
			}
			var fanout repository.Fanout
			if err := json.Unmarshal([]byte(msg.Payload), &fanout); err != nil {
				logCtx.WithError(err).Warn("Dropping malformed fanout payload")
				continue
			}
			handle(fanout)
		}
	}
}
