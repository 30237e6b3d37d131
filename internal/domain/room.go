package domain

import "time"

// Room 表示一个聊天房间。
type Room struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(191);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uint      `gorm:"index;not null" json:"owner_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

// Membership 是一行 (room, user) 记录，重复 join 会插入重复的行。
type Membership struct {
	ID     uint `gorm:"primaryKey" json:"-"`
	RoomID uint `gorm:"index;not null" json:"room_id"`
	UserID uint `gorm:"index;not null" json:"user_id"`
}

// TableName 沿用已部署数据库中的成员表名
func (Membership) TableName() string { return "room_members_user" }
