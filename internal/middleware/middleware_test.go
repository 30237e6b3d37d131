package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/middleware"
	"realtime-chat/internal/repository"
	"realtime-chat/internal/repository/mocks"
	"realtime-chat/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) domain.Envelope {
	t.Helper()
	var env domain.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newGate(t *testing.T, repo repository.UserRepository) (*service.SessionGate, *service.TokenCodec) {
	t.Helper()
	codec, err := service.NewTokenCodec("middleware-secret", 60)
	require.NoError(t, err)
	return service.NewSessionGate(codec, repo), codec
}

func TestSession(t *testing.T) {
	repo := new(mocks.UserRepository)
	repo.On("FindByID", mock.Anything, uint(5)).Return(&domain.User{ID: 5, UserName: "neo"}, nil)
	repo.On("FindByID", mock.Anything, uint(6)).Return(nil, errors.New("connection refused"))
	gate, codec := newGate(t, repo)

	var (
		seen     *service.Session
		captured *service.Session
	)
	r := gin.New()
	// 在 Session 之后读取上下文，观察请求结束时的会话状态
	r.Use(func(c *gin.Context) {
		captured = nil
		c.Next()
		captured, _ = middleware.CurrentSession(c)
	})
	r.GET("/ws", middleware.Session(gate), func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		require.True(t, ok)
		seen, ok = middleware.CurrentSession(c)
		require.True(t, ok)
		assert.Equal(t, service.SessionAuthenticated, seen.State())
		userID, _ := c.Get(middleware.UserIDKey)
		assert.Equal(t, user.ID, userID)
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "credential": seen.Credential()})
	})

	t.Run("valid cookie reaches handler", func(t *testing.T) {
		cookie, err := codec.Issue(5)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Header.Set("Cookie", cookie)
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			ID         uint   `json:"id"`
			Credential string `json:"credential"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, uint(5), body.ID)
		assert.Equal(t, cookie, body.Credential)
		require.NotNil(t, seen)
		assert.Equal(t, service.SessionClosed, seen.State())
	})

	t.Run("missing cookie is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, domain.StatusFail, env.Status)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(service.KindInvalidCredential), env.Error.Kind)

		require.NotNil(t, captured)
		assert.Equal(t, service.SessionClosed, captured.State(), "rejected session ends closed")
		assert.Nil(t, captured.User())
	})

	t.Run("tampered cookie is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Header.Set("Cookie", "Authentication=not-a-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		cookie, _ := codec.Issue(6)
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.Header.Set("Cookie", cookie)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(service.KindStoreError), env.Error.Kind)
		assert.NotContains(t, w.Body.String(), "connection refused")
		require.NotNil(t, captured)
		assert.Equal(t, service.SessionClosed, captured.State())
	})
}

func TestRateLimit(t *testing.T) {
	state := new(mocks.StateRepository)
	state.On("CheckRateLimit", mock.Anything, "ip:192.0.2.1", 2, time.Second).Return(false, nil).Once()
	state.On("CheckRateLimit", mock.Anything, "ip:192.0.2.1", 2, time.Second).Return(true, nil).Once()
	state.On("CheckRateLimit", mock.Anything, "ip:192.0.2.1", 2, time.Second).Return(false, errors.New("redis down")).Once()

	r := gin.New()
	r.Use(middleware.RateLimit(state, 2, time.Second))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusInternalServerError}, codes)
	state.AssertExpectations(t)
}

func TestRateLimit_PanicsOnBadConfig(t *testing.T) {
	state := new(mocks.StateRepository)
	assert.Panics(t, func() { middleware.RateLimit(nil, 1, time.Second) })
	assert.Panics(t, func() { middleware.RateLimit(state, 0, time.Second) })
	assert.Panics(t, func() { middleware.RateLimit(state, 1, 0) })
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS("http://chat.example"))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	t.Run("preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/ping", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://chat.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("simple request", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://chat.example", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
