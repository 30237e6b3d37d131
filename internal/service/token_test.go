package service_test

import (
	"strings"
	"testing"
	"time"

	"realtime-chat/internal/service"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCodec_IssueVerifyRoundTrip(t *testing.T) {
	codec, err := service.NewTokenCodec("secret", 120)
	require.NoError(t, err)

	cookie, err := codec.Issue(42)
	require.NoError(t, err)
	assert.Regexp(t, `^Authentication=[^;]+; HttpOnly; Path=/; Max-Age=120$`, cookie)

	userID, err := codec.Verify(cookie)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	// 浏览器发回的 Cookie 头只带 name=value
	userID, err = codec.Verify("theme=dark; " + cookie[:strings.Index(cookie, ";")])
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokenCodec_NewRequiresSecret(t *testing.T) {
	_, err := service.NewTokenCodec("", 10)
	assert.Error(t, err)
}

func TestTokenCodec_VerifyRejects(t *testing.T) {
	codec, err := service.NewTokenCodec("secret", 60)
	require.NoError(t, err)
	other, err := service.NewTokenCodec("other-secret", 60)
	require.NoError(t, err)
	foreign, err := other.Issue(7)
	require.NoError(t, err)

	expired := signClaims(t, "secret", service.Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	noExpiry := signClaims(t, "secret", service.Claims{UserID: 7})

	cases := map[string]string{
		"empty":          "",
		"no auth cookie": "session=abc",
		"empty token":    "Authentication=",
		"garbage token":  "Authentication=not-a-jwt",
		"wrong secret":   foreign,
		"expired":        "Authentication=" + expired,
		"missing exp":    "Authentication=" + noExpiry,
	}
	for name, cookie := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Verify(cookie)
			assert.ErrorIs(t, err, service.ErrInvalidCredential)
		})
	}
}

func TestTokenCodec_RejectsNoneAlgorithm(t *testing.T) {
	codec, err := service.NewTokenCodec("secret", 60)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, service.Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.VerifyToken(raw)
	assert.ErrorIs(t, err, service.ErrInvalidCredential)
}

func signClaims(t *testing.T, secret string, claims service.Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}
