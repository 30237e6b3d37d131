package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"realtime-chat/internal/domain"
)

// GormMembershipRepository 是 MembershipRepository 接口的 GORM 实现
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository 创建 GormMembershipRepository 实例
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	if db == nil {
		panic("database connection cannot be nil for GormMembershipRepository")
	}
	return &GormMembershipRepository{db: db}
}

// Add 插入一条成员行 (不检查是否已存在)
func (r *GormMembershipRepository) Add(ctx context.Context, roomID, userID uint) error {
	if err := r.db.WithContext(ctx).Create(&domain.Membership{RoomID: roomID, UserID: userID}).Error; err != nil {
		return fmt.Errorf("gorm: add membership (room %d, user %d): %w", roomID, userID, err)
	}
	return nil
}

// Remove 删除匹配的全部成员行
func (r *GormMembershipRepository) Remove(ctx context.Context, roomID, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&domain.Membership{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: remove membership (room %d, user %d): %w", roomID, userID, result.Error)
	}
	return result.RowsAffected, nil
}

// Count 返回匹配的成员行数量
func (r *GormMembershipRepository) Count(ctx context.Context, roomID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count membership (room %d, user %d): %w", roomID, userID, err)
	}
	return count, nil
}

// DeleteByRoom 删除房间的全部成员行
func (r *GormMembershipRepository) DeleteByRoom(ctx context.Context, roomID uint) (int64, error) {
	return r.deleteWhere(ctx, "room_id = ?", roomID)
}

// DeleteByUser 删除用户的全部成员行
func (r *GormMembershipRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	return r.deleteWhere(ctx, "user_id = ?", userID)
}

func (r *GormMembershipRepository) deleteWhere(ctx context.Context, cond string, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Where(cond, id).Delete(&domain.Membership{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete memberships where %s (%d): %w", cond, id, result.Error)
	}
	return result.RowsAffected, nil
}
