package service

import (
	"context"

	"realtime-chat/internal/repository"

	"github.com/sirupsen/logrus"
)

// MembershipService 将 join / leave 镜像到成员表。
// 不做去重：同一 (room, user) 多次 join 会产生多行。
type MembershipService struct {
	membershipRepo repository.MembershipRepository
}

// NewMembershipService 创建 MembershipService 实例。
func NewMembershipService(membershipRepo repository.MembershipRepository) *MembershipService {
	if membershipRepo == nil {
		panic("MembershipRepository cannot be nil for MembershipService")
	}
	return &MembershipService{membershipRepo: membershipRepo}
}

// Join 插入一行成员关系。
func (s *MembershipService) Join(ctx context.Context, roomID, userID uint) error {
	if roomID == 0 || userID == 0 {
		return withMessage(ErrInvalidInput, "roomId and userId are required")
	}
	if err := s.membershipRepo.Add(ctx, roomID, userID); err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).
			WithError(err).Error("Failed to insert membership row")
		return mapRepoError(err, ErrRoomNotFound)
	}
	return nil
}

// Leave 删除匹配的全部成员行，返回删除的行数。
func (s *MembershipService) Leave(ctx context.Context, roomID, userID uint) (int64, error) {
	if roomID == 0 || userID == 0 {
		return 0, withMessage(ErrInvalidInput, "roomId and userId are required")
	}
	n, err := s.membershipRepo.Remove(ctx, roomID, userID)
	if err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).
			WithError(err).Error("Failed to delete membership rows")
		return 0, mapRepoError(err, ErrRoomNotFound)
	}
	return n, nil
}
