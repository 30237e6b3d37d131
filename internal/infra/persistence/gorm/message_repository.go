package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/repository"
)

// GormMessageRepository 是 MessageRepository 接口的 GORM 实现
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository 创建 GormMessageRepository 实例
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	if db == nil {
		panic("database connection cannot be nil for GormMessageRepository")
	}
	return &GormMessageRepository{db: db}
}

// FindByID 根据消息 ID 查找消息
func (r *GormMessageRepository) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	var message domain.Message
	err := r.db.WithContext(ctx).First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMessageNotFound
		}
		return nil, fmt.Errorf("gorm: find message by id %d: %w", id, err)
	}
	return &message, nil
}

// FindAll 按插入顺序返回全部消息
func (r *GormMessageRepository) FindAll(ctx context.Context) ([]domain.Message, error) {
	var messages []domain.Message
	if err := r.db.WithContext(ctx).Order("id").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("gorm: find all messages: %w", err)
	}
	return messages, nil
}

// FindByRoom 按插入顺序返回房间内的消息
func (r *GormMessageRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Order("id").Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find messages of room %d: %w", roomID, err)
	}
	return messages, nil
}

// Create 插入新消息
func (r *GormMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("gorm: create message (room %d, author %d): %w", message.RoomID, message.AuthorID, err)
	}
	return nil
}

// UpdateContent 更新消息内容，content 为 nil 时保留原值
func (r *GormMessageRepository) UpdateContent(ctx context.Context, id uint, content *string) (*domain.Message, error) {
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", id).
		Update("content", gorm.Expr("COALESCE(?, content)", content)).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: update message %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

// Delete 删除消息并返回被删除的记录
func (r *GormMessageRepository) Delete(ctx context.Context, id uint) (*domain.Message, error) {
	message, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Delete(&domain.Message{}, id)
	if result.Error != nil {
		return nil, fmt.Errorf("gorm: delete message %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrMessageNotFound
	}
	return message, nil
}

// DeleteByRoom 删除房间内的全部消息
func (r *GormMessageRepository) DeleteByRoom(ctx context.Context, roomID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&domain.Message{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete messages of room %d: %w", roomID, result.Error)
	}
	return result.RowsAffected, nil
}
