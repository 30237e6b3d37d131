package service

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/repository"
)

// SessionState 是单个连接的认证状态。
type SessionState int

const (
	SessionPending SessionState = iota
	SessionAuthenticated
	SessionRejected
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionPending:
		return "pending"
	case SessionAuthenticated:
		return "authenticated"
	case SessionRejected:
		return "rejected"
	case SessionClosed:
		return "closed"
	}
	return "unknown"
}

// Session 记录一次握手的认证结果。
// Pending -> Authenticated -> Closed，或 Pending -> Rejected -> Closed。
type Session struct {
	mu         sync.Mutex
	state      SessionState
	user       *domain.User
	credential string
}

// State 返回当前状态。
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User 返回认证通过的用户；未认证时为 nil。
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Credential 返回握手时携带的 cookie 文本。
func (s *Session) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// Close 将会话转入 Closed。重复调用无副作用。
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SessionClosed
}

func (s *Session) transition(to SessionState, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionPending {
		return
	}
	s.state = to
	s.user = user
}

// SessionGate 在握手阶段校验凭证并解析用户。
type SessionGate struct {
	tokens   *TokenCodec
	userRepo repository.UserRepository
}

// NewSessionGate 创建 SessionGate 实例。
func NewSessionGate(tokens *TokenCodec, userRepo repository.UserRepository) *SessionGate {
	if tokens == nil {
		panic("TokenCodec cannot be nil for SessionGate")
	}
	if userRepo == nil {
		panic("UserRepository cannot be nil for SessionGate")
	}
	return &SessionGate{tokens: tokens, userRepo: userRepo}
}

// Admit 处理一次握手。返回的 Session 处于 Authenticated 或 Rejected；
// 被拒绝时同时返回 ErrInvalidCredential (或存储错误)。
func (g *SessionGate) Admit(ctx context.Context, cookieHeader string) (*Session, error) {
	session := &Session{state: SessionPending, credential: cookieHeader}

	user, err := g.UserFromCredential(ctx, cookieHeader)
	if err != nil {
		session.transition(SessionRejected, nil)
		return session, err
	}
	session.transition(SessionAuthenticated, user)
	return session, nil
}

// UserFromCredential 从 cookie 文本中重新解析出当前用户。
// 凭证无效或用户已不存在时返回 ErrInvalidCredential。
func (g *SessionGate) UserFromCredential(ctx context.Context, cookieText string) (*domain.User, error) {
	userID, err := g.tokens.Verify(cookieText)
	if err != nil {
		return nil, err
	}
	logCtx := logrus.WithField("user_id", userID)

	user, err := g.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logCtx.Warn("Credential refers to a user that no longer exists")
			return nil, ErrInvalidCredential
		}
		logCtx.WithError(err).Error("Failed to resolve user from credential")
		return nil, mapRepoError(err, ErrInvalidCredential)
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}
	return user, nil
}
