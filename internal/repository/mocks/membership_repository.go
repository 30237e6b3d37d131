package mocks

import (
	context "context"

	repository "realtime-chat/internal/repository"

	mock "github.com/stretchr/testify/mock"
)

// MembershipRepository is a mock type for the MembershipRepository type
type MembershipRepository struct {
	mock.Mock
}

// Add provides a mock function with given fields: ctx, roomID, userID
func (_m *MembershipRepository) Add(ctx context.Context, roomID uint, userID uint) error {
	ret := _m.Called(ctx, roomID, userID)
	return ret.Error(0)
}

// Remove provides a mock function with given fields: ctx, roomID, userID
func (_m *MembershipRepository) Remove(ctx context.Context, roomID uint, userID uint) (int64, error) {
	ret := _m.Called(ctx, roomID, userID)
	return ret.Get(0).(int64), ret.Error(1)
}

// Count provides a mock function with given fields: ctx, roomID, userID
func (_m *MembershipRepository) Count(ctx context.Context, roomID uint, userID uint) (int64, error) {
	ret := _m.Called(ctx, roomID, userID)
	return ret.Get(0).(int64), ret.Error(1)
}

// DeleteByRoom provides a mock function with given fields: ctx, roomID
func (_m *MembershipRepository) DeleteByRoom(ctx context.Context, roomID uint) (int64, error) {
	ret := _m.Called(ctx, roomID)
	return ret.Get(0).(int64), ret.Error(1)
}

// DeleteByUser provides a mock function with given fields: ctx, userID
func (_m *MembershipRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(int64), ret.Error(1)
}

var _ repository.MembershipRepository = (*MembershipRepository)(nil)
