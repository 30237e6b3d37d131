package mocks

import (
	context "context"

	domain "realtime-chat/internal/domain"
	repository "realtime-chat/internal/repository"

	mock "github.com/stretchr/testify/mock"
)

// RoomRepository is a mock type for the RoomRepository type
type RoomRepository struct {
	mock.Mock
}

func (_m *RoomRepository) roomOrNil(ret mock.Arguments) (*domain.Room, error) {
	var r *domain.Room
	if v := ret.Get(0); v != nil {
		r = v.(*domain.Room)
	}
	return r, ret.Error(1)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *RoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	return _m.roomOrNil(_m.Called(ctx, id))
}

// FindAll provides a mock function with given fields: ctx
func (_m *RoomRepository) FindAll(ctx context.Context) ([]domain.Room, error) {
	ret := _m.Called(ctx)
	var rooms []domain.Room
	if v := ret.Get(0); v != nil {
		rooms = v.([]domain.Room)
	}
	return rooms, ret.Error(1)
}

// CreateWithOwner provides a mock function with given fields: ctx, room
func (_m *RoomRepository) CreateWithOwner(ctx context.Context, room *domain.Room) error {
	ret := _m.Called(ctx, room)
	return ret.Error(0)
}

// Patch provides a mock function with given fields: ctx, id, patch
func (_m *RoomRepository) Patch(ctx context.Context, id uint, patch repository.RoomPatch) (*domain.Room, error) {
	return _m.roomOrNil(_m.Called(ctx, id, patch))
}

// Delete provides a mock function with given fields: ctx, id
func (_m *RoomRepository) Delete(ctx context.Context, id uint) (*domain.Room, error) {
	return _m.roomOrNil(_m.Called(ctx, id))
}

var _ repository.RoomRepository = (*RoomRepository)(nil)
