package service

import "context"

// TaskEnqueuer 投递后台清理任务。为 nil 时服务跳过投递。
type TaskEnqueuer interface {
	EnqueueRoomPurge(ctx context.Context, roomID uint) error
	EnqueueUserPurge(ctx context.Context, userID uint) error
}
