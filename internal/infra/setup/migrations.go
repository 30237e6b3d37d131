package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"realtime-chat/internal/domain"
)

// MigrateDB 创建或更新 users / rooms / room_members_user / messages 表。
// 成员表刻意不加 (room_id, user_id) 唯一索引。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	models := []any{
		&domain.User{},
		&domain.Room{},
		&domain.Membership{},
		&domain.Message{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			logrus.WithError(err).Errorf("Failed to auto-migrate %T", model)
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
