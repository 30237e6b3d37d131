package mocks

import (
	context "context"
	time "time"

	repository "realtime-chat/internal/repository"

	mock "github.com/stretchr/testify/mock"
)

// StateRepository is a mock type for the StateRepository type
type StateRepository struct {
	mock.Mock
}

// CheckRateLimit provides a mock function with given fields: ctx, key, limit, window
func (_m *StateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ret := _m.Called(ctx, key, limit, window)
	return ret.Bool(0), ret.Error(1)
}

// PublishFanout provides a mock function with given fields: ctx, fanout
func (_m *StateRepository) PublishFanout(ctx context.Context, fanout repository.Fanout) error {
	ret := _m.Called(ctx, fanout)
	return ret.Error(0)
}

// SubscribeFanout provides a mock function with given fields: ctx, handle
func (_m *StateRepository) SubscribeFanout(ctx context.Context, handle func(repository.Fanout)) error {
	ret := _m.Called(ctx, handle)
	return ret.Error(0)
}

var _ repository.StateRepository = (*StateRepository)(nil)
