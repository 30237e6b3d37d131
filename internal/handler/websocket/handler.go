package websocket

import (
	"net/http"

	"realtime-chat/internal/hub"
	"realtime-chat/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketHandler 负责升级已通过会话闸门的请求，并运行连接。
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
	router   *Router
}

// NewWebSocketHandler 创建 WebSocketHandler 实例。
// allowedOrigin 为跨域握手允许的来源，"*" 表示不检查。
func NewWebSocketHandler(h *hub.Hub, router *Router, allowedOrigin string) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if router == nil {
		panic("Router cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// 非浏览器客户端不带 Origin
			return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
		},
	}

	return &WebSocketHandler{
		upgrader: upgrader,
		hub:      h,
		router:   router,
	}
}

// HandleConnection 处理 WebSocket 连接请求。必须挂在 middleware.Session 之后。
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	// 1. 获取认证用户 (由 Session 中间件设置)
	user, ok := middleware.CurrentUser(c)
	if !ok {
		logrus.Warn("WS Handler: user not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return // 此时还未升级，直接返回 HTTP 错误
	}
	session, ok := middleware.CurrentSession(c)
	if !ok {
		logrus.Warn("WS Handler: session not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	credential := session.Credential()
	logCtx := logrus.WithField("user_id", user.ID)

	// 2. 升级 HTTP 连接到 WebSocket
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 会自动写入 HTTP 错误响应
		logCtx.WithError(err).Warn("WS Handler: failed to upgrade connection")
		return
	}

	// 3. 创建 Client 并阻塞运行，直到连接结束
	client := hub.NewClient(h.hub, conn, user.ID, credential)
	logCtx.WithField("conn_id", client.ID()).Info("WS Handler: connection upgraded to WebSocket")
	client.Serve(c.Request.Context(), h.router)
}
