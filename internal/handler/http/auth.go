package http

import (
	"net/http"

	"realtime-chat/internal/dto"
	"realtime-chat/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler 封装了与用户认证相关的 HTTP 处理逻辑。
// WebSocket 握手需要 cookie，客户端先通过这里取得它。
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	if authService == nil {
		panic("AuthService cannot be nil for AuthHandler")
	}
	return &AuthHandler{authService: authService}
}

// RegisterRequest 定义注册请求的结构体
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	UserName  string `json:"userName" binding:"required,max=191"`
	FirstName string `json:"firstName" binding:"max=191"`
	LastName  string `json:"lastName" binding:"max=191"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input", string(service.KindInvalidInput))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), dto.RegisterPayload{
		Email:     req.Email,
		UserName:  req.UserName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Successful registration", user)
}

// LoginRequest 定义登录请求的结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验凭证并通过 Set-Cookie 下发会话 cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: email and password required", string(service.KindInvalidInput))
		return
	}

	cookie, _, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.Header("Set-Cookie", cookie)
	SuccessResponse(c, http.StatusOK, "Successful logIn", cookie)
}

// Logout 下发 Max-Age=0 的 cookie。已签发的 token 在过期前仍然有效。
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie := h.authService.Logout()
	c.Header("Set-Cookie", cookie)
	SuccessResponse(c, http.StatusOK, "Successful logOut", cookie)
}
