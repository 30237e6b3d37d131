package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// TaskEnqueuer is a mock type for the service.TaskEnqueuer type
type TaskEnqueuer struct {
	mock.Mock
}

// EnqueueRoomPurge provides a mock function with given fields: ctx, roomID
func (_m *TaskEnqueuer) EnqueueRoomPurge(ctx context.Context, roomID uint) error {
	ret := _m.Called(ctx, roomID)
	return ret.Error(0)
}

// EnqueueUserPurge provides a mock function with given fields: ctx, userID
func (_m *TaskEnqueuer) EnqueueUserPurge(ctx context.Context, userID uint) error {
	ret := _m.Called(ctx, userID)
	return ret.Error(0)
}
