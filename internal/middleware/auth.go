package middleware

import (
	"net/http"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Gin 上下文中的键
const (
	UserKey    = "user"
	UserIDKey  = "user_id" // 访问日志读取
	SessionKey = "session"
)

// Session 返回一个 Gin 中间件，在握手阶段 (升级之前) 运行会话闸门。
// 凭证缺失、无效或用户不存在时直接返回 401，请求不会到达后续处理器。
func Session(gate *service.SessionGate) gin.HandlerFunc {
	if gate == nil {
		panic("SessionGate cannot be nil for Session middleware")
	}

	return func(c *gin.Context) {
		cookieHeader := c.GetHeader("Cookie")
		session, err := gate.Admit(c.Request.Context(), cookieHeader)
		c.Set(SessionKey, session)
		// 请求结束即连接结束：Authenticated 或 Rejected 都转入 Closed
		defer session.Close()

		if err != nil {
			logCtx := logrus.WithFields(logrus.Fields{
				"client_ip": c.ClientIP(),
				"path":      c.Request.URL.Path,
				"state":     session.State().String(),
			})
			if service.KindOf(err) == service.KindInvalidCredential {
				logCtx.Warn("Session middleware: connection rejected")
				c.AbortWithStatusJSON(http.StatusUnauthorized, domain.Fail("Unauthorized",
					&domain.ErrorInfo{Kind: string(service.KindInvalidCredential), Message: "Unauthorized"}))
				return
			}
			logCtx.WithError(err).Error("Session middleware: failed to resolve user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, domain.Fail(service.PublicMessage(err),
				&domain.ErrorInfo{Kind: string(service.KindStoreError), Message: service.PublicMessage(err)}))
			return
		}

		user := session.User()
		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		logrus.WithField("user_id", user.ID).Debug("Session middleware: user authenticated via cookie")

		c.Next()
	}
}

// CurrentUser 返回 Session 中间件写入的用户。
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

// CurrentSession 返回 Session 中间件写入的会话 (包括被拒绝的会话)。
func CurrentSession(c *gin.Context) (*service.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	session, ok := v.(*service.Session)
	return session, ok && session != nil
}
