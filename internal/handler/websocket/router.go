package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/hub"
	"realtime-chat/internal/repository"
	"realtime-chat/internal/service"

	"github.com/sirupsen/logrus"
)

// Services 汇集路由需要的业务服务。
type Services struct {
	Gate        *service.SessionGate
	Auth        *service.AuthService
	Users       *service.UserService
	Rooms       *service.RoomService
	Memberships *service.MembershipService
	Messages    *service.MessageService
}

// EventLimit 配置每个连接的事件频率限制。Max <= 0 表示不限制。
type EventLimit struct {
	Max    int
	Window time.Duration
}

type eventHandler func(ctx context.Context, client *hub.Client, data json.RawMessage)

// Router 把入站帧分发给对应的事件处理器，实现 hub.Dispatcher。
type Router struct {
	hub      *hub.Hub
	svc      Services
	limiter  repository.StateRepository // 可以为 nil
	limit    EventLimit
	handlers map[string]eventHandler
}

var _ hub.Dispatcher = (*Router)(nil)

// NewRouter 创建 Router 并注册全部事件。limiter 为 nil 时不做频率限制。
func NewRouter(h *hub.Hub, svc Services, limiter repository.StateRepository, limit EventLimit) *Router {
	if h == nil {
		panic("Hub cannot be nil for Router")
	}
	if svc.Gate == nil || svc.Auth == nil || svc.Users == nil || svc.Rooms == nil ||
		svc.Memberships == nil || svc.Messages == nil {
		panic("all services are required for Router")
	}
	r := &Router{hub: h, svc: svc, limiter: limiter, limit: limit}
	r.handlers = map[string]eventHandler{
		EventRegister: r.register,
		EventLogIn:    r.logIn,
		EventLogOut:   r.logOut,

		EventJoin:  r.join,
		EventLeave: r.leave,

		EventGetAllUsers:       r.getAllUsers,
		EventGetAllUsersOfRoom: r.getAllUsersOfRoom,
		EventGetUserByID:       r.getUserByID,
		EventUpdatedUser:       r.updatedUser,
		EventDeletedUser:       r.deletedUser,
		EventUpdatedEmail:      r.updatedEmail,
		EventUpdatedPassword:   r.updatedPassword,

		EventGetAllRooms: r.getAllRooms,
		EventGetRoomByID: r.getRoomByID,
		EventNewRoom:     r.newRoom,
		EventUpdatedRoom: r.updatedRoom,
		EventDeletedRoom: r.deletedRoom,

		EventGetAllMessages:       r.getAllMessages,
		EventGetAllMessagesOfRoom: r.getAllMessagesOfRoom,
		EventGetMessageByID:       r.getMessageByID,
		EventNewMessage:           r.newMessage,
		EventUpdatedMessage:       r.updatedMessage,
		EventDeletedMessage:       r.deletedMessage,
	}
	return r
}

// Dispatch 解码一帧并调用对应的处理器。
func (r *Router) Dispatch(ctx context.Context, client *hub.Client, raw []byte) {
	var frame domain.Frame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Event == "" {
		r.reportInvalid(client, EventError, "Malformed frame")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"conn_id": client.ID(), "user_id": client.UserID(), "event": frame.Event})

	handler, ok := r.handlers[frame.Event]
	if !ok {
		logCtx.Debug("Unknown event")
		r.reportInvalid(client, EventError, fmt.Sprintf("Unknown event %s", frame.Event))
		return
	}

	if r.rateLimited(ctx, client) {
		logCtx.Warn("Event rate limit exceeded, dropping event")
		r.fail(client, EventError, service.ErrRateLimited)
		return
	}

	logCtx.Debug("Dispatching event")
	handler(ctx, client, frame.Data)
}

func (r *Router) rateLimited(ctx context.Context, client *hub.Client) bool {
	if r.limiter == nil || r.limit.Max <= 0 {
		return false
	}
	exceeded, err := r.limiter.CheckRateLimit(ctx, "event:"+client.ID(), r.limit.Max, r.limit.Window)
	if err != nil {
		// 计数器不可用时放行
		logrus.WithField("conn_id", client.ID()).WithError(err).Warn("Event rate limit check failed")
		return false
	}
	return exceeded
}

// --- 响应辅助函数 ---

func (r *Router) succeed(client *hub.Client, event, message string, data any) {
	r.hub.Emit(client, ResponseEvent(event), domain.Success(message, data))
}

// fail 按错误分类生成失败响应。
func (r *Router) fail(client *hub.Client, event string, err error) {
	msg := service.PublicMessage(err)
	target := ResponseEvent(event)
	if event == EventError {
		target = EventError
	}

	switch kind := service.KindOf(err); kind {
	case service.KindNotFound, service.KindInvalidCredential:
		r.hub.Emit(client, target, domain.Fail(msg, nil))
	case service.KindConflict, service.KindInvalidInput:
		r.hub.Emit(client, target, domain.Fail(msg, &domain.ErrorInfo{Kind: string(kind), Message: msg}))
	default:
		logrus.WithFields(logrus.Fields{"conn_id": client.ID(), "event": event}).
			WithError(err).Error("Store error while handling event")
		r.hub.Emit(client, EventError, domain.Fail(msg, &domain.ErrorInfo{Kind: string(service.KindStoreError), Message: msg}))
	}
}

func (r *Router) reportInvalid(client *hub.Client, event, message string) {
	target := ResponseEvent(event)
	if event == EventError {
		target = EventError
	}
	r.hub.Emit(client, target, domain.Fail(message, &domain.ErrorInfo{Kind: string(service.KindInvalidInput), Message: message}))
}

// actingUser 根据连接当前持有的凭证重新解析用户。
// 凭证失效时强制关闭连接并返回 false。
func (r *Router) actingUser(ctx context.Context, client *hub.Client, event string) (*domain.User, bool) {
	user, err := r.svc.Gate.UserFromCredential(ctx, client.Credential())
	if err == nil {
		return user, true
	}
	if service.KindOf(err) == service.KindInvalidCredential {
		logrus.WithFields(logrus.Fields{"conn_id": client.ID(), "event": event}).
			Warn("No user behind connection credential, closing connection")
		client.Close()
		return nil, false
	}
	r.fail(client, event, err)
	return nil, false
}

// bind 解码事件负载。缺省负载得到零值。
func bind[T any](r *Router, client *hub.Client, event string, data json.RawMessage) (T, bool) {
	var payload T
	if len(data) == 0 || string(data) == "null" {
		return payload, true
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		r.reportInvalid(client, event, "Malformed payload")
		return payload, false
	}
	return payload, true
}

// orSelf 在负载未提供用户 ID 时，根据连接当前持有的凭证解析用户。
// logIn / logOut 之后的凭证优先于握手时的用户。凭证失效时回复失败并返回 false。
func (r *Router) orSelf(ctx context.Context, client *hub.Client, event string, userID uint) (uint, bool) {
	if userID != 0 {
		return userID, true
	}
	user, err := r.svc.Gate.UserFromCredential(ctx, client.Credential())
	if err != nil {
		r.fail(client, event, err)
		return 0, false
	}
	return user.ID, true
}
