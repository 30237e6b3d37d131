package service_test

import (
	"context"
	"errors"
	"testing"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/repository"
	"realtime-chat/internal/repository/mocks"
	"realtime-chat/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRoomService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.RoomRepository)
	svc := service.NewRoomService(repo, nil)

	repo.On("CreateWithOwner", ctx, mock.MatchedBy(func(r *domain.Room) bool {
		return r.Title == "T" && r.Description == "D" && r.OwnerID == 4
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Room).ID = 11
	}).Return(nil).Once()

	room, err := svc.Create(ctx, 4, " T ", "D")

	require.NoError(t, err)
	assert.Equal(t, uint(11), room.ID)
	repo.AssertExpectations(t)
}

func TestRoomService_Create_RequiresTitle(t *testing.T) {
	repo := new(mocks.RoomRepository)
	svc := service.NewRoomService(repo, nil)

	_, err := svc.Create(context.Background(), 4, "  ", "D")

	assert.Equal(t, service.KindInvalidInput, service.KindOf(err))
	repo.AssertNotCalled(t, "CreateWithOwner", mock.Anything, mock.Anything)
}

func TestRoomService_Update_OmittedTitleIsNil(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.RoomRepository)
	svc := service.NewRoomService(repo, nil)
	desc := "new description"

	repo.On("Patch", ctx, uint(3), repository.RoomPatch{Description: &desc}).
		Return(&domain.Room{ID: 3, Title: "kept", Description: desc}, nil).Once()

	room, err := svc.Update(ctx, 3, "", desc)

	require.NoError(t, err)
	assert.Equal(t, "kept", room.Title)
	repo.AssertExpectations(t)
}

func TestRoomService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.RoomRepository)
	repo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrRoomNotFound).Once()

	_, err := service.NewRoomService(repo, nil).Get(ctx, 404)

	assert.ErrorIs(t, err, service.ErrRoomNotFound)
	assert.Equal(t, "Room not found", service.PublicMessage(err))
}

func TestRoomService_Delete_EnqueuesPurge(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.RoomRepository)
	enqueuer := new(mocks.TaskEnqueuer)
	svc := service.NewRoomService(repo, enqueuer)

	repo.On("Delete", ctx, uint(6)).Return(&domain.Room{ID: 6}, nil).Once()
	enqueuer.On("EnqueueRoomPurge", ctx, uint(6)).Return(nil).Once()

	room, err := svc.Delete(ctx, 6)

	require.NoError(t, err)
	assert.Equal(t, uint(6), room.ID)
	enqueuer.AssertExpectations(t)
}

func TestRoomService_Delete_NotFoundSkipsPurge(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.RoomRepository)
	enqueuer := new(mocks.TaskEnqueuer)
	svc := service.NewRoomService(repo, enqueuer)

	repo.On("Delete", ctx, uint(6)).Return(nil, repository.ErrRoomNotFound).Once()

	_, err := svc.Delete(ctx, 6)

	assert.ErrorIs(t, err, service.ErrRoomNotFound)
	enqueuer.AssertNotCalled(t, "EnqueueRoomPurge", mock.Anything, mock.Anything)
}

func TestMembershipService_JoinTwiceInsertsTwice(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MembershipRepository)
	svc := service.NewMembershipService(repo)

	repo.On("Add", ctx, uint(1), uint(2)).Return(nil).Twice()

	require.NoError(t, svc.Join(ctx, 1, 2))
	require.NoError(t, svc.Join(ctx, 1, 2))
	repo.AssertNumberOfCalls(t, "Add", 2)
}

func TestMembershipService_Leave(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MembershipRepository)
	svc := service.NewMembershipService(repo)

	repo.On("Remove", ctx, uint(1), uint(2)).Return(int64(2), nil).Once()
	repo.On("Remove", ctx, uint(1), uint(3)).Return(int64(0), errors.New("boom")).Once()

	n, err := svc.Leave(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = svc.Leave(ctx, 1, 3)
	assert.Equal(t, service.KindStoreError, service.KindOf(err))

	_, err = svc.Leave(ctx, 0, 3)
	assert.Equal(t, service.KindInvalidInput, service.KindOf(err))
}
