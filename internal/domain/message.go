package domain

import "time"

// Message 表示房间内的一条聊天消息。
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	RoomID    uint      `gorm:"index;not null" json:"room_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
