package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/dto"
	"realtime-chat/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 负责用户注册、登录与登出。
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenCodec
}

// NewAuthService 创建 AuthService 实例。
func NewAuthService(userRepo repository.UserRepository, tokens *TokenCodec) *AuthService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if tokens == nil {
		panic("TokenCodec cannot be nil for AuthService")
	}
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// Register 处理用户注册。邮箱或用户名已被占用时返回 ErrConflict。
func (s *AuthService) Register(ctx context.Context, in dto.RegisterPayload) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	userName := strings.TrimSpace(in.UserName)
	logCtx := logrus.WithFields(logrus.Fields{"user_name": userName, "email": email})

	// 1. 基本验证
	if email == "" || userName == "" || in.Password == "" {
		return nil, withMessage(ErrInvalidInput, "email, userName and password are required")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	// 2. 先查询是否存在，不依赖数据库唯一约束
	exists, err := s.userRepo.ExistsByEmailOrUserName(ctx, email, userName, 0)
	if err != nil {
		logCtx.WithError(err).Error("Database error during registration existence check")
		return nil, mapRepoError(err, ErrUserNotFound)
	}
	if exists {
		logCtx.Warn("Registration failed: email or user name already exists")
		return nil, withMessage(ErrConflict, "User with %s or %s already exists", email, userName)
	}

	// 3. 哈希密码
	hashedPassword, err := hashPassword(in.Password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		Email:     email,
		UserName:  userName,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  hashedPassword,
	}

	// 4. 保存用户；并发注册可能在查询之后撞上唯一约束
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Registration failed: duplicate entry on insert")
			return nil, withMessage(ErrConflict, "User with %s or %s already exists", email, userName)
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, mapRepoError(err, ErrUserNotFound)
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

// Login 校验邮箱和密码，成功时返回会话 cookie 与用户。
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	logCtx := logrus.WithField("email", email)

	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logCtx.Warn("Login attempt failed: unknown email")
			return "", nil, ErrIncorrectEmail
		}
		logCtx.WithError(err).Error("Login attempt failed: error finding user")
		return "", nil, mapRepoError(err, ErrIncorrectEmail)
	}
	if user == nil {
		return "", nil, ErrIncorrectEmail
	}

	if !checkPassword(password, user.Password) {
		logCtx.WithField("user_id", user.ID).Warn("Login attempt failed: invalid password")
		return "", nil, ErrIncorrectPassword
	}

	cookie, err := s.tokens.Issue(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to issue credential during login")
		return "", nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return cookie, user, nil
}

// Logout 返回清除凭证的 cookie。服务端不吊销已签发的 token。
func (s *AuthService) Logout() string {
	return s.tokens.Revoke()
}

// --- 私有辅助函数 ---

// bcrypt 只接受不超过 72 字节的密码
const maxPasswordBytes = 72

// validatePassword 在哈希之前拒绝 bcrypt 无法处理的密码
func validatePassword(password string) error {
	if len(password) > maxPasswordBytes {
		return withMessage(ErrInvalidInput, "password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

// hashPassword 使用 bcrypt 对密码进行哈希处理
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配
func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
