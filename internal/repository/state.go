package repository

import (
	"context"
	"time"
)

// Fanout 是跨实例转发的一次广播。
type Fanout struct {
	Origin  string `json:"origin"`            // 发布实例 ID
	RoomID  uint   `json:"room_id,omitempty"` // 0 表示全局广播
	Exclude string `json:"exclude,omitempty"` // 不接收此广播的连接 ID
	Frame   []byte `json:"frame"`             // 已编码的出站帧
}

// StateRepository 定义了与连接实时状态相关的操作，通常由 Redis 实现。
type StateRepository interface {
	// CheckRateLimit 检查给定 key 的请求频率是否超限，并递增计数。
	// 返回 true 如果超限。
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// PublishFanout 将一次广播发布到共享频道。
	PublishFanout(ctx context.Context, fanout Fanout) error

	// SubscribeFanout 订阅共享频道，对每条广播调用 handle，直到 ctx 结束。
	SubscribeFanout(ctx context.Context, handle func(Fanout)) error
}
