package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// CookieName 是承载会话凭证的 cookie 名。
const CookieName = "Authentication"

// Claims 是会话 token 的载荷。
type Claims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// TokenCodec 签发和校验会话凭证。凭证以 cookie 字符串的形式在连接间传递。
type TokenCodec struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenCodec 创建 TokenCodec。lifetimeSeconds <= 0 时使用 3600 秒。
func NewTokenCodec(secret string, lifetimeSeconds int) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("JWT secret key cannot be empty")
	}
	if lifetimeSeconds <= 0 {
		lifetimeSeconds = 3600
	}
	return &TokenCodec{
		secret:   []byte(secret),
		lifetime: time.Duration(lifetimeSeconds) * time.Second,
	}, nil
}

// Issue 为 userID 签发 token，返回
// "Authentication=<token>; HttpOnly; Path=/; Max-Age=<seconds>"。
func (c *TokenCodec) Issue(userID uint) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return fmt.Sprintf("%s=%s; HttpOnly; Path=/; Max-Age=%d", CookieName, signed, int(c.lifetime.Seconds())), nil
}

// Revoke 返回让持有者丢弃凭证的 cookie。服务端不做任何失效处理，
// 已签发的 token 在过期前仍然有效。
func (c *TokenCodec) Revoke() string {
	return CookieName + "=; HttpOnly; Path=/; Max-Age=0"
}

// MaxAge 返回凭证有效期 (秒)。
func (c *TokenCodec) MaxAge() int {
	return int(c.lifetime.Seconds())
}

// Verify 解析 cookie 文本并校验 token，返回其中的用户 ID。
// 任何失败 (缺失、格式错误、签名错误、过期) 都返回 ErrInvalidCredential。
func (c *TokenCodec) Verify(cookieText string) (uint, error) {
	raw, err := tokenFromCookie(cookieText)
	if err != nil {
		return 0, err
	}
	return c.VerifyToken(raw)
}

// VerifyToken 校验不带 cookie 包装的 token。
func (c *TokenCodec) VerifyToken(raw string) (uint, error) {
	claims := &Claims{}
	parser := jwt.Parser{}
	token, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredential
	}
	// jwt/v4 只在 exp 存在时校验它
	if claims.ExpiresAt == nil {
		return 0, ErrInvalidCredential
	}
	if claims.UserID == 0 {
		return 0, ErrInvalidCredential
	}
	return claims.UserID, nil
}

func tokenFromCookie(cookieText string) (string, error) {
	if cookieText == "" {
		return "", ErrInvalidCredential
	}
	req := &http.Request{Header: http.Header{"Cookie": {cookieText}}}
	cookie, err := req.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrInvalidCredential
	}
	return cookie.Value, nil
}
