package repository

import (
	"context"

	"realtime-chat/internal/domain"
)

// UserProfilePatch 描述一次部分更新。nil 字段保留数据库中的原值。
type UserProfilePatch struct {
	UserName  *string
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// FindByID 根据用户 ID 查找用户，不存在时返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindByEmail 根据邮箱查找用户，不存在时返回 ErrUserNotFound。
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// ExistsByEmailOrUserName 检查邮箱或用户名是否已被其他用户占用。
	// excludeID 为 0 时不排除任何用户。
	ExistsByEmailOrUserName(ctx context.Context, email, userName string, excludeID uint) (bool, error)

	// FindAll 返回全部用户。
	FindAll(ctx context.Context) ([]domain.User, error)

	// FindByRoom 返回房间的成员。重复的成员行会产生重复的用户。
	FindByRoom(ctx context.Context, roomID uint) ([]domain.User, error)

	// Create 插入新用户，唯一约束冲突时返回 ErrDuplicateEntry。
	Create(ctx context.Context, user *domain.User) error

	// Patch 以单条 UPDATE 语句应用部分更新并返回更新后的记录。
	Patch(ctx context.Context, id uint, patch UserProfilePatch) (*domain.User, error)

	// Delete 删除用户并返回被删除的记录。
	Delete(ctx context.Context, id uint) (*domain.User, error)
}
