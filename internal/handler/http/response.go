package http

import (
	"realtime-chat/internal/domain"

	"github.com/gin-gonic/gin"
)

// SuccessResponse 以统一信封格式返回成功结果
func SuccessResponse(c *gin.Context, code int, message string, data any) {
	c.JSON(code, domain.Success(message, data))
}

// ErrorResponse 以统一信封格式返回失败结果，kind 为空时 error 字段为 null
func ErrorResponse(c *gin.Context, code int, message, kind string) {
	var info *domain.ErrorInfo
	if kind != "" {
		info = &domain.ErrorInfo{Kind: kind, Message: message}
	}
	c.JSON(code, domain.Fail(message, info))
}
