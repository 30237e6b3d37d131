package service

import (
	"errors"
	"fmt"

	"realtime-chat/internal/repository"
)

// Kind 是服务层错误的封闭分类。
type Kind string

const (
	KindInvalidCredential Kind = "invalid_credential"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidInput      Kind = "invalid_input"
	KindStoreError        Kind = "store_error"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrIncorrectEmail    = errors.New("incorrect email")
	ErrIncorrectPassword = errors.New("incorrect password")

	ErrUserNotFound    = errors.New("user not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrMessageNotFound = errors.New("message not found")

	ErrConflict = errors.New("already exists")

	ErrInvalidInput     = errors.New("invalid input")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrRateLimited      = errors.New("too many events")

	ErrInternalServer = errors.New("internal server error")
)

var kindOf = []struct {
	kind     Kind
	sentinel []error
}{
	{KindInvalidCredential, []error{ErrInvalidCredential, ErrIncorrectEmail, ErrIncorrectPassword}},
	{KindNotFound, []error{ErrUserNotFound, ErrRoomNotFound, ErrMessageNotFound}},
	{KindConflict, []error{ErrConflict}},
	{KindInvalidInput, []error{ErrInvalidInput, ErrPasswordMismatch, ErrRateLimited}},
}

// KindOf 将任意错误归类。无法识别的错误一律视为 store_error。
func KindOf(err error) Kind {
	for _, k := range kindOf {
		for _, s := range k.sentinel {
			if errors.Is(err, s) {
				return k.kind
			}
		}
	}
	return KindStoreError
}

// 客户端可见的消息文本
var publicMessages = map[error]string{
	ErrInvalidCredential: "Unauthorized",
	ErrIncorrectEmail:    "Incorrect email",
	ErrIncorrectPassword: "Incorrect password",
	ErrUserNotFound:      "User not found",
	ErrRoomNotFound:      "Room not found",
	ErrMessageNotFound:   "Message not found",
	ErrPasswordMismatch:  "Passwords do not match",
	ErrRateLimited:       "Too many events",
	ErrInvalidInput:      "Invalid input",
}

// detailedError 携带面向客户端的消息，同时保留哨兵错误以供 errors.Is 判断。
type detailedError struct {
	sentinel error
	message  string
}

func (e *detailedError) Error() string { return e.message }
func (e *detailedError) Unwrap() error { return e.sentinel }

func withMessage(sentinel error, format string, args ...any) error {
	return &detailedError{sentinel: sentinel, message: fmt.Sprintf(format, args...)}
}

// PublicMessage 返回可以安全发给客户端的错误描述，不会包含底层驱动信息。
func PublicMessage(err error) string {
	var de *detailedError
	if errors.As(err, &de) {
		return de.message
	}
	for sentinel, msg := range publicMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return "Internal server error"
}

// mapRepoError 将仓库层错误映射为服务层错误。notFound 是该资源对应的哨兵。
func mapRepoError(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrDuplicateEntry):
		return withMessage(ErrConflict, "Entry already exists")
	default:
		return fmt.Errorf("%w: %v", ErrInternalServer, err)
	}
}
