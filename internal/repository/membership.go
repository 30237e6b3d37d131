package repository

import "context"

// MembershipRepository 维护 (room, user) 成员行。
// 没有唯一约束：重复 Add 会插入重复的行。
type MembershipRepository interface {
	Add(ctx context.Context, roomID, userID uint) error

	// Remove 删除匹配的全部行，返回删除的行数。
	Remove(ctx context.Context, roomID, userID uint) (int64, error)

	Count(ctx context.Context, roomID, userID uint) (int64, error)

	DeleteByRoom(ctx context.Context, roomID uint) (int64, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}
