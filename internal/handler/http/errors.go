package http

import (
	"net/http"

	"realtime-chat/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HandleServiceError 将服务层错误映射为 HTTP 状态码与信封。
func HandleServiceError(c *gin.Context, err error) {
	msg := service.PublicMessage(err)
	switch kind := service.KindOf(err); kind {
	case service.KindInvalidCredential:
		ErrorResponse(c, http.StatusUnauthorized, msg, "")
	case service.KindNotFound:
		ErrorResponse(c, http.StatusNotFound, msg, "")
	case service.KindConflict:
		ErrorResponse(c, http.StatusConflict, msg, string(kind))
	case service.KindInvalidInput:
		ErrorResponse(c, http.StatusBadRequest, msg, string(kind))
	default:
		// 记录内部错误，客户端只看到通用消息
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, msg, string(service.KindStoreError))
	}
}
