package repository

import (
	"context"

	"realtime-chat/internal/domain"
)

// RoomPatch 描述一次房间部分更新。nil 字段保留原值。
type RoomPatch struct {
	Title       *string
	Description *string
}

// RoomRepository 定义了房间数据的存储和检索操作。
type RoomRepository interface {
	// FindByID 根据房间 ID 查找房间，不存在时返回 ErrRoomNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// FindAll 返回全部房间。
	FindAll(ctx context.Context) ([]domain.Room, error)

	// CreateWithOwner 插入房间，并把创建者写入成员表 (同一事务)。
	CreateWithOwner(ctx context.Context, room *domain.Room) error

	// Patch 以单条 UPDATE 语句应用部分更新并返回更新后的记录。
	Patch(ctx context.Context, id uint, patch RoomPatch) (*domain.Room, error)

	// Delete 删除房间并返回被删除的记录。
	Delete(ctx context.Context, id uint) (*domain.Room, error)
}
