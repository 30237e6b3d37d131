package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"realtime-chat/internal/repository"
	"realtime-chat/internal/tasks"
)

// PurgeHandler 处理房间与用户删除后的级联清理
type PurgeHandler struct {
	messageRepo    repository.MessageRepository
	membershipRepo repository.MembershipRepository
}

// NewPurgeHandler 创建 Handler 实例
func NewPurgeHandler(messageRepo repository.MessageRepository, membershipRepo repository.MembershipRepository) *PurgeHandler {
	if messageRepo == nil {
		panic("MessageRepository cannot be nil for PurgeHandler")
	}
	if membershipRepo == nil {
		panic("MembershipRepository cannot be nil for PurgeHandler")
	}
	return &PurgeHandler{messageRepo: messageRepo, membershipRepo: membershipRepo}
}

func taskLogger(ctx context.Context, t *asynq.Task) *logrus.Entry {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	return logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
		"max_retry": maxRetry,
	})
}

// ProcessRoomPurge 删除房间内的消息和成员行
func (h *PurgeHandler) ProcessRoomPurge(ctx context.Context, t *asynq.Task) error {
	logCtx := taskLogger(ctx, t)

	var payload tasks.RoomPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithField("room_id", payload.RoomID)

	messages, err := h.messageRepo.DeleteByRoom(ctx, payload.RoomID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to purge room messages")
		return fmt.Errorf("purge messages of room %d: %w", payload.RoomID, err)
	}
	members, err := h.membershipRepo.DeleteByRoom(ctx, payload.RoomID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to purge room memberships")
		return fmt.Errorf("purge memberships of room %d: %w", payload.RoomID, err)
	}

	logCtx.WithFields(logrus.Fields{"messages": messages, "memberships": members}).Info("Room purge task processed successfully")
	return nil
}

// ProcessUserPurge 删除用户的成员行。消息保留，author_id 指向已删除的用户。
func (h *PurgeHandler) ProcessUserPurge(ctx context.Context, t *asynq.Task) error {
	logCtx := taskLogger(ctx, t)

	var payload tasks.UserPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithField("user_id", payload.UserID)

	members, err := h.membershipRepo.DeleteByUser(ctx, payload.UserID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to purge user memberships")
		return fmt.Errorf("purge memberships of user %d: %w", payload.UserID, err)
	}

	logCtx.WithField("memberships", members).Info("User purge task processed successfully")
	return nil
}
