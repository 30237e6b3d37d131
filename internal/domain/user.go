// Package domain 定义了聊天服务的核心数据结构 (数据库模型与线路格式)。
package domain

import "time"

// User 表示一个注册用户。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_email;not null" json:"email"`
	UserName  string    `gorm:"type:varchar(191);uniqueIndex:idx_user_name;not null" json:"userName"`
	FirstName string    `gorm:"type:varchar(191)" json:"firstName"`
	LastName  string    `gorm:"type:varchar(191)" json:"lastName"`
	Password  string    `gorm:"type:text;not null" json:"-"` // bcrypt 哈希，不序列化
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}
