package middleware

import (
	"net/http"
	"time"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RateLimit 返回一个 Gin 中间件，用于基于客户端 IP 地址进行速率限制。
// state: 存储计数器的状态仓库 (Redis)，必须提供。
func RateLimit(state repository.StateRepository, maxRequests int, window time.Duration) gin.HandlerFunc {
	if state == nil {
		panic("StateRepository cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}

	return func(c *gin.Context) {
		// 注意：如果服务在反向代理后面，需要配置 gin 的 TrustedProxies 才能拿到真实 IP
		key := "ip:" + c.ClientIP()

		exceeded, err := state.CheckRateLimit(c.Request.Context(), key, maxRequests, window)
		if err != nil {
			logrus.WithError(err).Error("RateLimit: counter check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, domain.Fail("Rate limiting error", nil))
			return
		}
		if exceeded {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.Fail("Too many requests", nil))
			return
		}
		c.Next()
	}
}
