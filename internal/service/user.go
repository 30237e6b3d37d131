package service

import (
	"context"
	"strings"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/dto"
	"realtime-chat/internal/repository"

	"github.com/sirupsen/logrus"
)

// UserService 负责用户资料的查询与修改。
type UserService struct {
	userRepo repository.UserRepository
	enqueuer TaskEnqueuer
}

// NewUserService 创建 UserService 实例。enqueuer 可以为 nil。
func NewUserService(userRepo repository.UserRepository, enqueuer TaskEnqueuer) *UserService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for UserService")
	}
	return &UserService{userRepo: userRepo, enqueuer: enqueuer}
}

// List 返回全部用户。
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	return users, nil
}

// ListByRoom 返回房间成员。
func (s *UserService) ListByRoom(ctx context.Context, roomID uint) ([]domain.User, error) {
	users, err := s.userRepo.FindByRoom(ctx, roomID)
	if err != nil {
		logrus.WithField("room_id", roomID).WithError(err).Error("Failed to list room members")
		return nil, mapRepoError(err, ErrRoomNotFound)
	}
	return users, nil
}

// Get 根据 ID 查找用户。
func (s *UserService) Get(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	return user, nil
}

// UpdateProfile 更新用户名与姓名，空字段保留原值。
// 新用户名被其他用户占用时返回 ErrConflict。
func (s *UserService) UpdateProfile(ctx context.Context, in dto.UpdateUserPayload) (*domain.User, error) {
	logCtx := logrus.WithField("user_id", in.UserID)
	patch := repository.UserProfilePatch{
		UserName:  optional(in.UserName),
		FirstName: optional(in.FirstName),
		LastName:  optional(in.LastName),
	}

	if patch.UserName != nil {
		taken, err := s.userRepo.ExistsByEmailOrUserName(ctx, "", *patch.UserName, in.UserID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to check user name availability")
			return nil, mapRepoError(err, ErrUserNotFound)
		}
		if taken {
			return nil, withMessage(ErrConflict, "User with %s already exists", *patch.UserName)
		}
	}

	user, err := s.userRepo.Patch(ctx, in.UserID, patch)
	if err != nil {
		logCtx.WithError(err).Warn("Failed to update user profile")
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	logCtx.Info("User profile updated")
	return user, nil
}

// UpdateEmail 更新邮箱。空邮箱保留原值。
func (s *UserService) UpdateEmail(ctx context.Context, userID uint, email string) (*domain.User, error) {
	logCtx := logrus.WithField("user_id", userID)
	newEmail := optional(email)

	if newEmail != nil {
		taken, err := s.userRepo.ExistsByEmailOrUserName(ctx, *newEmail, "", userID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to check email availability")
			return nil, mapRepoError(err, ErrUserNotFound)
		}
		if taken {
			return nil, withMessage(ErrConflict, "User with %s already exists", *newEmail)
		}
	}

	user, err := s.userRepo.Patch(ctx, userID, repository.UserProfilePatch{Email: newEmail})
	if err != nil {
		logCtx.WithError(err).Warn("Failed to update email")
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	logCtx.Info("User email updated")
	return user, nil
}

// UpdatePassword 校验旧密码后写入新密码哈希。
func (s *UserService) UpdatePassword(ctx context.Context, in dto.UpdatePasswordPayload) (*domain.User, error) {
	logCtx := logrus.WithField("user_id", in.UserID)

	newPassword := strings.TrimSpace(in.NewPassword)
	if newPassword == "" {
		return nil, withMessage(ErrInvalidInput, "newPassword is required")
	}
	if newPassword != strings.TrimSpace(in.NewPasswordConfirm) {
		return nil, ErrPasswordMismatch
	}
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	if !checkPassword(in.OldPassword, user.Password) {
		logCtx.Warn("Password change rejected: old password mismatch")
		return nil, ErrIncorrectPassword
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash new password")
		return nil, ErrInternalServer
	}
	updated, err := s.userRepo.Patch(ctx, in.UserID, repository.UserProfilePatch{Password: &hashed})
	if err != nil {
		logCtx.WithError(err).Warn("Failed to update password")
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	logCtx.Info("User password updated")
	return updated, nil
}

// Delete 删除用户，并投递成员关系清理任务。
func (s *UserService) Delete(ctx context.Context, userID uint) (*domain.User, error) {
	logCtx := logrus.WithField("user_id", userID)

	user, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound)
	}

	if s.enqueuer == nil {
		logCtx.Info("No task queue configured, skipping user purge")
	} else if err := s.enqueuer.EnqueueUserPurge(ctx, userID); err != nil {
		// 用户已删除，清理失败只记录日志
		logCtx.WithError(err).Error("Failed to enqueue user purge task")
	}

	logCtx.Info("User deleted")
	return user, nil
}

// optional 将空字符串视为 "未提供"
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
