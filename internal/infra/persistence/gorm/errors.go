package gormpersistence

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"realtime-chat/internal/repository"
)

// isDuplicateEntryError 检查唯一约束冲突。MySQL 使用错误码，其他驱动回退到错误字符串。
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}

var (
	_ repository.UserRepository       = (*GormUserRepository)(nil)
	_ repository.RoomRepository       = (*GormRoomRepository)(nil)
	_ repository.MembershipRepository = (*GormMembershipRepository)(nil)
	_ repository.MessageRepository    = (*GormMessageRepository)(nil)
)
