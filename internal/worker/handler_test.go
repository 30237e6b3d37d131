package worker

import (
	"context"
	"errors"
	"testing"

	"realtime-chat/internal/repository/mocks"
	"realtime-chat/internal/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPurgeHandler_RoomPurge(t *testing.T) {
	ctx := context.Background()
	messages := new(mocks.MessageRepository)
	members := new(mocks.MembershipRepository)
	h := NewPurgeHandler(messages, members)

	messages.On("DeleteByRoom", ctx, uint(9)).Return(int64(3), nil).Once()
	members.On("DeleteByRoom", ctx, uint(9)).Return(int64(2), nil).Once()

	task, err := tasks.NewRoomPurgeTask(9)
	require.NoError(t, err)
	require.NoError(t, h.ProcessRoomPurge(ctx, task))

	messages.AssertExpectations(t)
	members.AssertExpectations(t)
}

func TestPurgeHandler_RoomPurgeRetriesOnStoreError(t *testing.T) {
	ctx := context.Background()
	messages := new(mocks.MessageRepository)
	members := new(mocks.MembershipRepository)
	h := NewPurgeHandler(messages, members)

	messages.On("DeleteByRoom", ctx, uint(9)).Return(int64(0), errors.New("db down")).Once()

	task, _ := tasks.NewRoomPurgeTask(9)
	err := h.ProcessRoomPurge(ctx, task)

	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry), "存储错误应允许重试")
	members.AssertNotCalled(t, "DeleteByRoom", mock.Anything, mock.Anything)
}

func TestPurgeHandler_UserPurge(t *testing.T) {
	ctx := context.Background()
	members := new(mocks.MembershipRepository)
	h := NewPurgeHandler(new(mocks.MessageRepository), members)

	members.On("DeleteByUser", ctx, uint(5)).Return(int64(4), nil).Once()

	task, _ := tasks.NewUserPurgeTask(5)
	require.NoError(t, h.ProcessUserPurge(ctx, task))
	members.AssertExpectations(t)
}

func TestPurgeHandler_MalformedPayloadSkipsRetry(t *testing.T) {
	h := NewPurgeHandler(new(mocks.MessageRepository), new(mocks.MembershipRepository))

	err := h.ProcessUserPurge(context.Background(), asynq.NewTask(tasks.TypeUserPurge, []byte("{")))

	assert.ErrorIs(t, err, asynq.SkipRetry)
}
