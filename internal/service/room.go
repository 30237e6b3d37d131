package service

import (
	"context"
	"strings"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/repository"

	"github.com/sirupsen/logrus"
)

// RoomService 负责房间管理相关的业务逻辑。
type RoomService struct {
	roomRepo repository.RoomRepository
	enqueuer TaskEnqueuer
}

// NewRoomService 创建 RoomService 实例。enqueuer 可以为 nil。
func NewRoomService(roomRepo repository.RoomRepository, enqueuer TaskEnqueuer) *RoomService {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for RoomService")
	}
	return &RoomService{roomRepo: roomRepo, enqueuer: enqueuer}
}

// List 返回全部房间。
func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list rooms")
		return nil, mapRepoError(err, ErrRoomNotFound)
	}
	return rooms, nil
}

// Get 根据 ID 查找房间。
func (s *RoomService) Get(ctx context.Context, roomID uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, mapRepoError(err, ErrRoomNotFound)
	}
	return room, nil
}

// Create 创建房间，创建者同时成为成员。
func (s *RoomService) Create(ctx context.Context, ownerID uint, title, description string) (*domain.Room, error) {
	logCtx := logrus.WithField("owner_id", ownerID)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, withMessage(ErrInvalidInput, "title is required")
	}

	room := &domain.Room{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.roomRepo.CreateWithOwner(ctx, room); err != nil {
		logCtx.WithError(err).Error("Failed to save new room to database")
		return nil, mapRepoError(err, ErrRoomNotFound)
	}

	logCtx.WithField("room_id", room.ID).Info("Room created successfully")
	return room, nil
}

// Update 部分更新房间，空字段保留原值。
func (s *RoomService) Update(ctx context.Context, roomID uint, title, description string) (*domain.Room, error) {
	room, err := s.roomRepo.Patch(ctx, roomID, repository.RoomPatch{
		Title:       optional(title),
		Description: optional(description),
	})
	if err != nil {
		logrus.WithField("room_id", roomID).WithError(err).Warn("Failed to update room")
		return nil, mapRepoError(err, ErrRoomNotFound)
	}
	return room, nil
}

// Delete 删除房间，并投递消息与成员关系的清理任务。
func (s *RoomService) Delete(ctx context.Context, roomID uint) (*domain.Room, error) {
	logCtx := logrus.WithField("room_id", roomID)

	room, err := s.roomRepo.Delete(ctx, roomID)
	if err != nil {
		return nil, mapRepoError(err, ErrRoomNotFound)
	}

	if s.enqueuer == nil {
		logCtx.Info("No task queue configured, skipping room purge")
	} else if err := s.enqueuer.EnqueueRoomPurge(ctx, roomID); err != nil {
		logCtx.WithError(err).Error("Failed to enqueue room purge task")
	}

	logCtx.Info("Room deleted")
	return room, nil
}
