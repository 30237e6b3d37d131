package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// 定义任务类型常量
const (
	TypeRoomPurge = "room:purge" // 删除房间后清理消息与成员行
	TypeUserPurge = "user:purge" // 删除用户后清理成员行
)

// RoomPurgePayload 定义了房间清理任务的数据结构
type RoomPurgePayload struct {
	RoomID uint `json:"room_id"`
}

// UserPurgePayload 定义了用户清理任务的数据结构
type UserPurgePayload struct {
	UserID uint `json:"user_id"`
}

// NewRoomPurgeTask 创建一个房间清理任务
func NewRoomPurgeTask(roomID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(RoomPurgePayload{RoomID: roomID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRoomPurge, payload), nil
}

// NewUserPurgeTask 创建一个用户清理任务
func NewUserPurgeTask(userID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(UserPurgePayload{UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeUserPurge, payload), nil
}

// taskClient 是 asynq.Client 中 Enqueuer 用到的部分
type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer 通过 asynq 投递清理任务
type Enqueuer struct {
	client taskClient
}

// NewEnqueuer 创建 Enqueuer 实例
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	if client == nil {
		panic("asynq client cannot be nil for Enqueuer")
	}
	return &Enqueuer{client: client}
}

// EnqueueRoomPurge 投递 room:purge
func (e *Enqueuer) EnqueueRoomPurge(ctx context.Context, roomID uint) error {
	task, err := NewRoomPurgeTask(roomID)
	if err != nil {
		return fmt.Errorf("tasks: build %s: %w", TypeRoomPurge, err)
	}
	return e.enqueue(ctx, task, logrus.Fields{"room_id": roomID})
}

// EnqueueUserPurge 投递 user:purge
func (e *Enqueuer) EnqueueUserPurge(ctx context.Context, userID uint) error {
	task, err := NewUserPurgeTask(userID)
	if err != nil {
		return fmt.Errorf("tasks: build %s: %w", TypeUserPurge, err)
	}
	return e.enqueue(ctx, task, logrus.Fields{"user_id": userID})
}

func (e *Enqueuer) enqueue(ctx context.Context, task *asynq.Task, fields logrus.Fields) error {
	info, err := e.client.EnqueueContext(ctx, task, asynq.Queue("default"), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("tasks: enqueue %s: %w", task.Type(), err)
	}
	logrus.WithFields(fields).WithFields(logrus.Fields{
		"task_id":   info.ID,
		"task_type": task.Type(),
	}).Info("Task enqueued")
	return nil
}
