package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/repository"
)

// GormRoomRepository 是 RoomRepository 接口的 GORM 实现
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository 创建 GormRoomRepository 实例
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

// FindByID 根据房间 ID 查找房间
func (r *GormRoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id %d: %w", id, err)
	}
	return &room, nil
}

// FindAll 返回全部房间
func (r *GormRoomRepository) FindAll(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	if err := r.db.WithContext(ctx).Order("id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("gorm: find all rooms: %w", err)
	}
	return rooms, nil
}

// CreateWithOwner 在同一事务中插入房间和创建者的成员行
func (r *GormRoomRepository) CreateWithOwner(ctx context.Context, room *domain.Room) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Membership{RoomID: room.ID, UserID: room.OwnerID}).Error
	})
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create room (title: %s, owner: %d): %w", room.Title, room.OwnerID, err)
	}
	return nil
}

// Patch 使用 COALESCE 在单条语句中完成部分更新
func (r *GormRoomRepository) Patch(ctx context.Context, id uint, patch repository.RoomPatch) (*domain.Room, error) {
	err := r.db.WithContext(ctx).
		Model(&domain.Room{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":       gorm.Expr("COALESCE(?, title)", patch.Title),
			"description": gorm.Expr("COALESCE(?, description)", patch.Description),
		}).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: patch room %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

// Delete 删除房间并返回被删除的记录
func (r *GormRoomRepository) Delete(ctx context.Context, id uint) (*domain.Room, error) {
	room, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Delete(&domain.Room{}, id)
	if result.Error != nil {
		return nil, fmt.Errorf("gorm: delete room %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrRoomNotFound
	}
	return room, nil
}
