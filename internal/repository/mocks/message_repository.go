package mocks

import (
	context "context"

	domain "realtime-chat/internal/domain"
	repository "realtime-chat/internal/repository"

	mock "github.com/stretchr/testify/mock"
)

// MessageRepository is a mock type for the MessageRepository type
type MessageRepository struct {
	mock.Mock
}

func (_m *MessageRepository) messageOrNil(ret mock.Arguments) (*domain.Message, error) {
	var m *domain.Message
	if v := ret.Get(0); v != nil {
		m = v.(*domain.Message)
	}
	return m, ret.Error(1)
}

func (_m *MessageRepository) messagesOrNil(ret mock.Arguments) ([]domain.Message, error) {
	var list []domain.Message
	if v := ret.Get(0); v != nil {
		list = v.([]domain.Message)
	}
	return list, ret.Error(1)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *MessageRepository) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	return _m.messageOrNil(_m.Called(ctx, id))
}

// FindAll provides a mock function with given fields: ctx
func (_m *MessageRepository) FindAll(ctx context.Context) ([]domain.Message, error) {
	return _m.messagesOrNil(_m.Called(ctx))
}

// FindByRoom provides a mock function with given fields: ctx, roomID
func (_m *MessageRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.Message, error) {
	return _m.messagesOrNil(_m.Called(ctx, roomID))
}

// Create provides a mock function with given fields: ctx, message
func (_m *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	ret := _m.Called(ctx, message)
	return ret.Error(0)
}

// UpdateContent provides a mock function with given fields: ctx, id, content
func (_m *MessageRepository) UpdateContent(ctx context.Context, id uint, content *string) (*domain.Message, error) {
	return _m.messageOrNil(_m.Called(ctx, id, content))
}

// Delete provides a mock function with given fields: ctx, id
func (_m *MessageRepository) Delete(ctx context.Context, id uint) (*domain.Message, error) {
	return _m.messageOrNil(_m.Called(ctx, id))
}

// DeleteByRoom provides a mock function with given fields: ctx, roomID
func (_m *MessageRepository) DeleteByRoom(ctx context.Context, roomID uint) (int64, error) {
	ret := _m.Called(ctx, roomID)
	return ret.Get(0).(int64), ret.Error(1)
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
