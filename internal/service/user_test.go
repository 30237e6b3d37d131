package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/dto"
	"realtime-chat/internal/repository"
	"realtime-chat/internal/repository/mocks"
	"realtime-chat/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile_PartialFields(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	svc := service.NewUserService(repo, nil)

	// 只提供 firstName：userName 与 lastName 应为 nil (保留原值)
	repo.On("Patch", ctx, uint(2), repository.UserProfilePatch{FirstName: strPtr("Ann")}).
		Return(&domain.User{ID: 2, UserName: "ann", FirstName: "Ann", LastName: "Lee"}, nil).Once()

	user, err := svc.UpdateProfile(ctx, dto.UpdateUserPayload{UserID: 2, FirstName: "Ann"})

	require.NoError(t, err)
	assert.Equal(t, "Lee", user.LastName)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "ExistsByEmailOrUserName", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_UpdateProfile_UserNameTaken(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	svc := service.NewUserService(repo, nil)

	repo.On("ExistsByEmailOrUserName", ctx, "", "bob", uint(2)).Return(true, nil).Once()

	_, err := svc.UpdateProfile(ctx, dto.UpdateUserPayload{UserID: 2, UserName: "bob"})

	require.Error(t, err)
	assert.Equal(t, service.KindConflict, service.KindOf(err))
	assert.Equal(t, "User with bob already exists", service.PublicMessage(err))
	repo.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_UpdateProfile_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	svc := service.NewUserService(repo, nil)

	repo.On("Patch", ctx, uint(99), mock.Anything).Return(nil, repository.ErrUserNotFound).Once()

	_, err := svc.UpdateProfile(ctx, dto.UpdateUserPayload{UserID: 99, LastName: "X"})

	assert.ErrorIs(t, err, service.ErrUserNotFound)
	assert.Equal(t, service.KindNotFound, service.KindOf(err))
}

func TestUserService_UpdateEmail(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	svc := service.NewUserService(repo, nil)

	repo.On("ExistsByEmailOrUserName", ctx, "new@x.io", "", uint(5)).Return(false, nil).Once()
	repo.On("Patch", ctx, uint(5), repository.UserProfilePatch{Email: strPtr("new@x.io")}).
		Return(&domain.User{ID: 5, Email: "new@x.io"}, nil).Once()

	user, err := svc.UpdateEmail(ctx, 5, "new@x.io")

	require.NoError(t, err)
	assert.Equal(t, "new@x.io", user.Email)
	repo.AssertExpectations(t)
}

func TestUserService_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.MinCost)

	t.Run("mismatch", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		svc := service.NewUserService(repo, nil)

		_, err := svc.UpdatePassword(ctx, dto.UpdatePasswordPayload{
			UserID: 1, OldPassword: "old-pass", NewPassword: "a", NewPasswordConfirm: "b",
		})

		assert.ErrorIs(t, err, service.ErrPasswordMismatch)
		assert.Equal(t, "Passwords do not match", service.PublicMessage(err))
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("too long", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		svc := service.NewUserService(repo, nil)
		long := strings.Repeat("n", 73)

		_, err := svc.UpdatePassword(ctx, dto.UpdatePasswordPayload{
			UserID: 1, OldPassword: "old-pass", NewPassword: long, NewPasswordConfirm: long,
		})

		assert.Equal(t, service.KindInvalidInput, service.KindOf(err))
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("wrong old password", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		svc := service.NewUserService(repo, nil)
		repo.On("FindByID", ctx, uint(1)).Return(&domain.User{ID: 1, Password: string(hash)}, nil).Once()

		_, err := svc.UpdatePassword(ctx, dto.UpdatePasswordPayload{
			UserID: 1, OldPassword: "nope", NewPassword: "next", NewPasswordConfirm: "next",
		})

		assert.ErrorIs(t, err, service.ErrIncorrectPassword)
		repo.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		repo := new(mocks.UserRepository)
		svc := service.NewUserService(repo, nil)
		repo.On("FindByID", ctx, uint(1)).Return(&domain.User{ID: 1, Password: string(hash)}, nil).Once()
		repo.On("Patch", ctx, uint(1), mock.MatchedBy(func(p repository.UserProfilePatch) bool {
			return p.Password != nil && bcrypt.CompareHashAndPassword([]byte(*p.Password), []byte("next")) == nil &&
				p.Email == nil && p.UserName == nil
		})).Return(&domain.User{ID: 1}, nil).Once()

		user, err := svc.UpdatePassword(ctx, dto.UpdatePasswordPayload{
			UserID: 1, OldPassword: "old-pass", NewPassword: " next ", NewPasswordConfirm: "next",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
		repo.AssertExpectations(t)
	})
}

func TestUserService_Delete_EnqueuesPurge(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	enqueuer := new(mocks.TaskEnqueuer)
	svc := service.NewUserService(repo, enqueuer)

	repo.On("Delete", ctx, uint(8)).Return(&domain.User{ID: 8}, nil).Once()
	enqueuer.On("EnqueueUserPurge", ctx, uint(8)).Return(errors.New("redis down")).Once()

	user, err := svc.Delete(ctx, 8)

	require.NoError(t, err, "投递失败不应影响删除结果")
	assert.Equal(t, uint(8), user.ID)
	repo.AssertExpectations(t)
	enqueuer.AssertExpectations(t)
}

func TestUserService_ListByRoom_KeepsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.UserRepository)
	svc := service.NewUserService(repo, nil)
	u := domain.User{ID: 1}
	repo.On("FindByRoom", ctx, uint(3)).Return([]domain.User{u, u}, nil).Once()

	users, err := svc.ListByRoom(ctx, 3)

	require.NoError(t, err)
	assert.Len(t, users, 2)
}
