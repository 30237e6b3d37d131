package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"realtime-chat/internal/dto"
	"realtime-chat/internal/hub"

	"github.com/sirupsen/logrus"
)

func (r *Router) register(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.RegisterPayload](r, client, EventRegister, data)
	if !ok {
		return
	}
	user, err := r.svc.Auth.Register(ctx, in)
	if err != nil {
		r.fail(client, EventRegister, err)
		return
	}
	r.succeed(client, EventRegister, "Successful registration", user)
}

// logIn 成功后替换连接持有的凭证
func (r *Router) logIn(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.LogInPayload](r, client, EventLogIn, data)
	if !ok {
		return
	}
	cookie, user, err := r.svc.Auth.Login(ctx, in.Email, in.Password)
	if err != nil {
		r.fail(client, EventLogIn, err)
		return
	}
	client.SetIdentity(user.ID, cookie)
	logrus.WithFields(logrus.Fields{"conn_id": client.ID(), "user_id": user.ID}).Info("Connection credential replaced by logIn")
	r.succeed(client, EventLogIn, "Successful logIn", cookie)
}

func (r *Router) logOut(_ context.Context, client *hub.Client, _ json.RawMessage) {
	cookie := r.svc.Auth.Logout()
	client.SetCredential(cookie)
	r.succeed(client, EventLogOut, "Successful logOut", cookie)
}

// join 订阅房间频道并写入一行成员关系，然后通知房间。
func (r *Router) join(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.MembershipPayload](r, client, EventJoin, data)
	if !ok {
		return
	}
	if in.RoomID == 0 {
		r.reportInvalid(client, EventError, "roomId is required")
		return
	}
	userID, ok := r.orSelf(ctx, client, EventError, in.UserID)
	if !ok {
		return
	}

	r.hub.Subscribe(client, in.RoomID)
	if err := r.svc.Memberships.Join(ctx, in.RoomID, userID); err != nil {
		r.fail(client, EventError, err)
		return
	}
	r.hub.BroadcastRoom(ctx, in.RoomID, EventJoin, joinNotice, nil)
}

// leave 取消订阅并删除匹配的成员行，然后通知房间中剩下的连接。
func (r *Router) leave(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.MembershipPayload](r, client, EventLeave, data)
	if !ok {
		return
	}
	if in.RoomID == 0 {
		r.reportInvalid(client, EventError, "roomId is required")
		return
	}
	userID, ok := r.orSelf(ctx, client, EventError, in.UserID)
	if !ok {
		return
	}

	r.hub.Unsubscribe(client, in.RoomID)
	if _, err := r.svc.Memberships.Leave(ctx, in.RoomID, userID); err != nil {
		r.fail(client, EventError, err)
		return
	}
	r.hub.BroadcastRoom(ctx, in.RoomID, EventLeave, fmt.Sprintf(leaveNotice, client.ID()), nil)
}
