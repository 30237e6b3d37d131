package service

import (
	"context"
	"strings"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/repository"

	"github.com/sirupsen/logrus"
)

// MessageService 负责聊天消息。任何已认证连接都可以修改或删除任意消息。
type MessageService struct {
	messageRepo repository.MessageRepository
}

// NewMessageService 创建 MessageService 实例。
func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	if messageRepo == nil {
		panic("MessageRepository cannot be nil for MessageService")
	}
	return &MessageService{messageRepo: messageRepo}
}

// ListAll 返回全部消息。
func (s *MessageService) ListAll(ctx context.Context) ([]domain.Message, error) {
	messages, err := s.messageRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list messages")
		return nil, mapRepoError(err, ErrMessageNotFound)
	}
	return messages, nil
}

// ListByRoom 返回房间内的消息。
func (s *MessageService) ListByRoom(ctx context.Context, roomID uint) ([]domain.Message, error) {
	messages, err := s.messageRepo.FindByRoom(ctx, roomID)
	if err != nil {
		logrus.WithField("room_id", roomID).WithError(err).Error("Failed to list room messages")
		return nil, mapRepoError(err, ErrMessageNotFound)
	}
	return messages, nil
}

// Get 根据 ID 查找消息。
func (s *MessageService) Get(ctx context.Context, messageID uint) (*domain.Message, error) {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, mapRepoError(err, ErrMessageNotFound)
	}
	return message, nil
}

// Create 以 authorID 的身份在房间内发送消息。
func (s *MessageService) Create(ctx context.Context, authorID, roomID uint, content string) (*domain.Message, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": authorID, "room_id": roomID})

	if roomID == 0 {
		return nil, withMessage(ErrInvalidInput, "roomId is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, withMessage(ErrInvalidInput, "content is required")
	}

	message := &domain.Message{
		Content:  content,
		AuthorID: authorID,
		RoomID:   roomID,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		logCtx.WithError(err).Error("Failed to save message")
		return nil, mapRepoError(err, ErrMessageNotFound)
	}
	logCtx.WithField("message_id", message.ID).Debug("Message created")
	return message, nil
}

// Update 修改消息内容。空内容保留原值。
func (s *MessageService) Update(ctx context.Context, messageID uint, content string) (*domain.Message, error) {
	var newContent *string
	if strings.TrimSpace(content) != "" {
		newContent = &content
	}
	message, err := s.messageRepo.UpdateContent(ctx, messageID, newContent)
	if err != nil {
		logrus.WithField("message_id", messageID).WithError(err).Warn("Failed to update message")
		return nil, mapRepoError(err, ErrMessageNotFound)
	}
	return message, nil
}

// Delete 删除消息并返回被删除的记录。
func (s *MessageService) Delete(ctx context.Context, messageID uint) (*domain.Message, error) {
	message, err := s.messageRepo.Delete(ctx, messageID)
	if err != nil {
		return nil, mapRepoError(err, ErrMessageNotFound)
	}
	return message, nil
}
