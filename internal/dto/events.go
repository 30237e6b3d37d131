// Package dto 定义了客户端通过 WebSocket 发送的事件负载结构。
package dto

// RegisterPayload 对应 "register" 事件。
type RegisterPayload struct {
	Email     string `json:"email"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// LogInPayload 对应 "logIn" 事件。
type LogInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MembershipPayload 对应 "join" / "leave" 事件。
type MembershipPayload struct {
	UserID uint `json:"userId"`
	RoomID uint `json:"roomId"`
}

// UserIDPayload 对应 "getUserById" / "deletedUser" 事件。
type UserIDPayload struct {
	UserID uint `json:"userId"`
}

// UpdateUserPayload 对应 "updatedUser" 事件。空字段保留原值。
type UpdateUserPayload struct {
	UserID    uint   `json:"userId"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateEmailPayload 对应 "updatedEmail" 事件。
type UpdateEmailPayload struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
}

// UpdatePasswordPayload 对应 "updatedPassword" 事件。
type UpdatePasswordPayload struct {
	UserID             uint   `json:"userId"`
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	NewPasswordConfirm string `json:"newPasswordConfirm"`
}

// RoomIDPayload 对应只携带 roomId 的事件。
type RoomIDPayload struct {
	RoomID uint `json:"roomId"`
}

// RoomPayload 对应 "newRoom" / "updatedRoom" 事件。
type RoomPayload struct {
	RoomID      uint   `json:"roomId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MessageIDPayload 对应 "getMessageById" / "deletedMessage" 事件。
type MessageIDPayload struct {
	MessageID uint `json:"messageId"`
}

// MessagePayload 对应 "newMessage" / "updatedMessage" 事件。
type MessagePayload struct {
	MessageID uint   `json:"messageId"`
	RoomID    uint   `json:"roomId"`
	Content   string `json:"content"`
}
