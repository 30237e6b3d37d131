package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/repository"
)

// GormUserRepository 是 UserRepository 接口的 GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository 创建 GormUserRepository 实例
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	if db == nil {
		panic("database connection cannot be nil for GormUserRepository")
	}
	return &GormUserRepository{db: db}
}

// FindByID 根据用户 ID 查找用户
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("gorm: find user by id %d: %w", id, err)
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("gorm: find user by email '%s': %w", email, err)
	}
	return &user, nil
}

// ExistsByEmailOrUserName 检查邮箱或用户名是否已存在
func (r *GormUserRepository) ExistsByEmailOrUserName(ctx context.Context, email, userName string, excludeID uint) (bool, error) {
	if email == "" && userName == "" {
		return false, nil
	}
	query := r.db.WithContext(ctx).Model(&domain.User{})
	switch {
	case email != "" && userName != "":
		query = query.Where("email = ? OR user_name = ?", email, userName)
	case email != "":
		query = query.Where("email = ?", email)
	default:
		query = query.Where("user_name = ?", userName)
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("gorm: count users by email '%s' or user name '%s': %w", email, userName, err)
	}
	return count > 0, nil
}

// FindAll 返回全部用户
func (r *GormUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("gorm: find all users: %w", err)
	}
	return users, nil
}

// FindByRoom 返回房间成员 (通过成员表关联)
func (r *GormUserRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("users.*").
		Joins("JOIN room_members_user rmu ON rmu.user_id = users.id").
		Where("rmu.room_id = ?", roomID).
		Order("rmu.id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find users of room %d: %w", roomID, err)
	}
	return users, nil
}

// Create 插入新用户
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create user (email: %s, user name: %s): %w", user.Email, user.UserName, err)
	}
	return nil
}

// Patch 使用 COALESCE 在单条语句中完成部分更新，避免先读后写的竞争。
func (r *GormUserRepository) Patch(ctx context.Context, id uint, patch repository.UserProfilePatch) (*domain.User, error) {
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"user_name":  gorm.Expr("COALESCE(?, user_name)", patch.UserName),
			"first_name": gorm.Expr("COALESCE(?, first_name)", patch.FirstName),
			"last_name":  gorm.Expr("COALESCE(?, last_name)", patch.LastName),
			"email":      gorm.Expr("COALESCE(?, email)", patch.Email),
			"password":   gorm.Expr("COALESCE(?, password)", patch.Password),
		}).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return nil, repository.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("gorm: patch user %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

// Delete 删除用户并返回被删除的记录
func (r *GormUserRepository) Delete(ctx context.Context, id uint) (*domain.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Delete(&domain.User{}, id)
	if result.Error != nil {
		return nil, fmt.Errorf("gorm: delete user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}
