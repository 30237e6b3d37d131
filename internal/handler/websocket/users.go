package websocket

import (
	"context"
	"encoding/json"

	"realtime-chat/internal/dto"
	"realtime-chat/internal/hub"
)

func (r *Router) getAllUsers(ctx context.Context, client *hub.Client, _ json.RawMessage) {
	users, err := r.svc.Users.List(ctx)
	if err != nil {
		r.fail(client, EventGetAllUsers, err)
		return
	}
	r.succeed(client, EventGetAllUsers, "Successful", users)
}

func (r *Router) getAllUsersOfRoom(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.RoomIDPayload](r, client, EventGetAllUsersOfRoom, data)
	if !ok {
		return
	}
	users, err := r.svc.Users.ListByRoom(ctx, in.RoomID)
	if err != nil {
		r.fail(client, EventGetAllUsersOfRoom, err)
		return
	}
	r.succeed(client, EventGetAllUsersOfRoom, "Successful", users)
}

func (r *Router) getUserByID(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.UserIDPayload](r, client, EventGetUserByID, data)
	if !ok {
		return
	}
	userID, ok := r.orSelf(ctx, client, EventGetUserByID, in.UserID)
	if !ok {
		return
	}
	user, err := r.svc.Users.Get(ctx, userID)
	if err != nil {
		r.fail(client, EventGetUserByID, err)
		return
	}
	r.succeed(client, EventGetUserByID, "Successful", user)
}

func (r *Router) updatedUser(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.UpdateUserPayload](r, client, EventUpdatedUser, data)
	if !ok {
		return
	}
	if in.UserID, ok = r.orSelf(ctx, client, EventUpdatedUser, in.UserID); !ok {
		return
	}
	user, err := r.svc.Users.UpdateProfile(ctx, in)
	if err != nil {
		r.fail(client, EventUpdatedUser, err)
		return
	}
	r.succeed(client, EventUpdatedUser, "Successful", user)
}

func (r *Router) deletedUser(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.UserIDPayload](r, client, EventDeletedUser, data)
	if !ok {
		return
	}
	userID, ok := r.orSelf(ctx, client, EventDeletedUser, in.UserID)
	if !ok {
		return
	}
	user, err := r.svc.Users.Delete(ctx, userID)
	if err != nil {
		r.fail(client, EventDeletedUser, err)
		return
	}
	r.succeed(client, EventDeletedUser, "Successful", user)
}

func (r *Router) updatedEmail(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.UpdateEmailPayload](r, client, EventUpdatedEmail, data)
	if !ok {
		return
	}
	userID, ok := r.orSelf(ctx, client, EventUpdatedEmail, in.UserID)
	if !ok {
		return
	}
	user, err := r.svc.Users.UpdateEmail(ctx, userID, in.Email)
	if err != nil {
		r.fail(client, EventUpdatedEmail, err)
		return
	}
	r.succeed(client, EventUpdatedEmail, "Successful", user)
}

func (r *Router) updatedPassword(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.UpdatePasswordPayload](r, client, EventUpdatedPassword, data)
	if !ok {
		return
	}
	if in.UserID, ok = r.orSelf(ctx, client, EventUpdatedPassword, in.UserID); !ok {
		return
	}
	user, err := r.svc.Users.UpdatePassword(ctx, in)
	if err != nil {
		r.fail(client, EventUpdatedPassword, err)
		return
	}
	r.succeed(client, EventUpdatedPassword, "Successful", user)
}
