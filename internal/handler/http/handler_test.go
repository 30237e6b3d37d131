package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"realtime-chat/internal/domain"
	httpHandler "realtime-chat/internal/handler/http"
	"realtime-chat/internal/repository"
	"realtime-chat/internal/repository/mocks"
	"realtime-chat/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Error   *domain.ErrorInfo `json:"error"`
	Data    json.RawMessage   `json:"data"`
}

func doJSON(r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func newAuthRouter(t *testing.T, users *mocks.UserRepository) (*gin.Engine, *service.TokenCodec) {
	t.Helper()
	codec, err := service.NewTokenCodec("http-secret", 120)
	require.NoError(t, err)
	h := httpHandler.NewAuthHandler(service.NewAuthService(users, codec))

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	return r, codec
}

func TestAuthHandler_Register(t *testing.T) {
	users := new(mocks.UserRepository)
	users.On("ExistsByEmailOrUserName", mock.Anything, "new@example.com", "newbie", uint(0)).Return(false, nil)
	users.On("ExistsByEmailOrUserName", mock.Anything, "taken@example.com", "taken", uint(0)).Return(true, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 12
	}).Return(nil)
	r, _ := newAuthRouter(t, users)

	t.Run("created", func(t *testing.T) {
		w, env := doJSON(r, http.MethodPost, "/api/auth/register", gin.H{
			"email": "new@example.com", "userName": "newbie", "password": "secret1",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, domain.StatusSuccess, env.Status)
		assert.Equal(t, "Successful registration", env.Message)
		assert.Contains(t, string(env.Data), `"id":12`)
		assert.NotContains(t, string(env.Data), "password")
	})

	t.Run("conflict", func(t *testing.T) {
		w, env := doJSON(r, http.MethodPost, "/api/auth/register", gin.H{
			"email": "taken@example.com", "userName": "taken", "password": "secret1",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(service.KindConflict), env.Error.Kind)
	})

	t.Run("invalid body", func(t *testing.T) {
		w, env := doJSON(r, http.MethodPost, "/api/auth/register", gin.H{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(service.KindInvalidInput), env.Error.Kind)
	})

	t.Run("password over bcrypt limit", func(t *testing.T) {
		w, env := doJSON(r, http.MethodPost, "/api/auth/register", gin.H{
			"email": "long@example.com", "userName": "long", "password": strings.Repeat("p", 73),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(service.KindInvalidInput), env.Error.Kind)
		users.AssertNotCalled(t, "ExistsByEmailOrUserName", mock.Anything, "long@example.com", "long", uint(0))
	})
}

func TestAuthHandler_LoginAndLogout(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(mocks.UserRepository)
	users.On("FindByEmail", mock.Anything, "neo@example.com").Return(&domain.User{ID: 1, Email: "neo@example.com", Password: string(hash)}, nil)
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrUserNotFound)
	users.On("FindByEmail", mock.Anything, "broken@example.com").Return(nil, errors.New("db down"))
	r, codec := newAuthRouter(t, users)

	t.Run("success sets cookie", func(t *testing.T) {
		w, env := doJSON(r, http.MethodPost, "/api/auth/login", gin.H{"email": "neo@example.com", "password": "secret1"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Successful logIn", env.Message)

		cookie := w.Header().Get("Set-Cookie")
		require.NotEmpty(t, cookie)
		var data string
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, cookie, data)

		userID, err := codec.Verify(cookie)
		require.NoError(t, err)
		assert.Equal(t, uint(1), userID)
	})

	t.Run("unknown email", func(t *testing.T) {
		w, env := doJSON(r, http.MethodPost, "/api/auth/login", gin.H{"email": "ghost@example.com", "password": "secret1"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Incorrect email", env.Message)
		assert.Nil(t, env.Error)
	})

	t.Run("wrong password", func(t *testing.T) {
		w, env := doJSON(r, http.MethodPost, "/api/auth/login", gin.H{"email": "neo@example.com", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Incorrect password", env.Message)
	})

	t.Run("store failure hides driver text", func(t *testing.T) {
		w, env := doJSON(r, http.MethodPost, "/api/auth/login", gin.H{"email": "broken@example.com", "password": "x"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", env.Message)
		assert.NotContains(t, w.Body.String(), "db down")
	})

	t.Run("logout clears cookie", func(t *testing.T) {
		w, env := doJSON(r, http.MethodPost, "/api/auth/logout", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.StatusSuccess, env.Status)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	})
}

func TestRoomHandler(t *testing.T) {
	rooms := new(mocks.RoomRepository)
	rooms.On("FindAll", mock.Anything).Return([]domain.Room{{ID: 1, Title: "general"}}, nil)
	rooms.On("FindByID", mock.Anything, uint(1)).Return(&domain.Room{ID: 1, Title: "general"}, nil)
	rooms.On("FindByID", mock.Anything, uint(2)).Return(nil, repository.ErrRoomNotFound)
	h := httpHandler.NewRoomHandler(service.NewRoomService(rooms, nil))

	r := gin.New()
	r.GET("/api/rooms", h.ListRooms)
	r.GET("/api/rooms/:roomId", h.GetRoom)

	w, env := doJSON(r, http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"title":"general"`)

	w, _ = doJSON(r, http.MethodGet, "/api/rooms/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(r, http.MethodGet, "/api/rooms/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, domain.StatusFail, env.Status)
	assert.Nil(t, env.Error)

	w, env = doJSON(r, http.MethodGet, "/api/rooms/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(service.KindInvalidInput), env.Error.Kind)
}
