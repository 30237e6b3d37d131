package repository

import (
	"context"

	"realtime-chat/internal/domain"
)

// MessageRepository 定义了聊天消息的存储和检索操作。
type MessageRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Message, error)

	// FindAll 按插入顺序返回全部消息。
	FindAll(ctx context.Context) ([]domain.Message, error)

	// FindByRoom 按插入顺序返回房间内的消息。
	FindByRoom(ctx context.Context, roomID uint) ([]domain.Message, error)

	Create(ctx context.Context, message *domain.Message) error

	// UpdateContent 更新消息内容。content 为 nil 时保留原值。
	UpdateContent(ctx context.Context, id uint, content *string) (*domain.Message, error)

	Delete(ctx context.Context, id uint) (*domain.Message, error)

	// DeleteByRoom 删除房间内的全部消息，返回删除的行数。
	DeleteByRoom(ctx context.Context, roomID uint) (int64, error)
}
