package mocks

import (
	context "context"

	domain "realtime-chat/internal/domain"
	repository "realtime-chat/internal/repository"

	mock "github.com/stretchr/testify/mock"
)

// UserRepository is a mock type for the UserRepository type
type UserRepository struct {
	mock.Mock
}

func (_m *UserRepository) userOrNil(ret mock.Arguments) (*domain.User, error) {
	var u *domain.User
	if v := ret.Get(0); v != nil {
		u = v.(*domain.User)
	}
	return u, ret.Error(1)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return _m.userOrNil(_m.Called(ctx, id))
}

// FindByEmail provides a mock function with given fields: ctx, email
func (_m *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return _m.userOrNil(_m.Called(ctx, email))
}

// ExistsByEmailOrUserName provides a mock function with given fields: ctx, email, userName, excludeID
func (_m *UserRepository) ExistsByEmailOrUserName(ctx context.Context, email string, userName string, excludeID uint) (bool, error) {
	ret := _m.Called(ctx, email, userName, excludeID)
	return ret.Bool(0), ret.Error(1)
}

// FindAll provides a mock function with given fields: ctx
func (_m *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	ret := _m.Called(ctx)
	var users []domain.User
	if v := ret.Get(0); v != nil {
		users = v.([]domain.User)
	}
	return users, ret.Error(1)
}

// FindByRoom provides a mock function with given fields: ctx, roomID
func (_m *UserRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.User, error) {
	ret := _m.Called(ctx, roomID)
	var users []domain.User
	if v := ret.Get(0); v != nil {
		users = v.([]domain.User)
	}
	return users, ret.Error(1)
}

// Create provides a mock function with given fields: ctx, user
func (_m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ret := _m.Called(ctx, user)
	return ret.Error(0)
}

// Patch provides a mock function with given fields: ctx, id, patch
func (_m *UserRepository) Patch(ctx context.Context, id uint, patch repository.UserProfilePatch) (*domain.User, error) {
	return _m.userOrNil(_m.Called(ctx, id, patch))
}

// Delete provides a mock function with given fields: ctx, id
func (_m *UserRepository) Delete(ctx context.Context, id uint) (*domain.User, error) {
	return _m.userOrNil(_m.Called(ctx, id))
}

var _ repository.UserRepository = (*UserRepository)(nil)
