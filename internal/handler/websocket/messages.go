package websocket

import (
	"context"
	"encoding/json"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/dto"
	"realtime-chat/internal/hub"
)

func (r *Router) getAllMessages(ctx context.Context, client *hub.Client, _ json.RawMessage) {
	messages, err := r.svc.Messages.ListAll(ctx)
	if err != nil {
		r.fail(client, EventGetAllMessages, err)
		return
	}
	r.succeed(client, EventGetAllMessages, "Successful", messages)
}

func (r *Router) getAllMessagesOfRoom(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.RoomIDPayload](r, client, EventGetAllMessagesOfRoom, data)
	if !ok {
		return
	}
	messages, err := r.svc.Messages.ListByRoom(ctx, in.RoomID)
	if err != nil {
		r.fail(client, EventGetAllMessagesOfRoom, err)
		return
	}
	r.succeed(client, EventGetAllMessagesOfRoom, "Successful", messages)
}

func (r *Router) getMessageByID(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.MessageIDPayload](r, client, EventGetMessageByID, data)
	if !ok {
		return
	}
	message, err := r.svc.Messages.Get(ctx, in.MessageID)
	if err != nil {
		r.fail(client, EventGetMessageByID, err)
		return
	}
	r.succeed(client, EventGetMessageByID, "Successful", message)
}

// newMessage 以连接当前凭证对应的用户作为作者。
func (r *Router) newMessage(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.MessagePayload](r, client, EventNewMessage, data)
	if !ok {
		return
	}
	author, ok := r.actingUser(ctx, client, EventNewMessage)
	if !ok {
		return
	}
	message, err := r.svc.Messages.Create(ctx, author.ID, in.RoomID, in.Content)
	if err != nil {
		r.fail(client, EventNewMessage, err)
		return
	}
	r.fanout(ctx, message.RoomID, ResponseEvent(EventNewMessage), domain.Success("Successful", message))
}

func (r *Router) updatedMessage(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.MessagePayload](r, client, EventUpdatedMessage, data)
	if !ok {
		return
	}
	message, err := r.svc.Messages.Update(ctx, in.MessageID, in.Content)
	if err != nil {
		r.fail(client, EventUpdatedMessage, err)
		return
	}
	r.fanout(ctx, message.RoomID, ResponseEvent(EventUpdatedMessage), domain.Success("Successful", message))
}

func (r *Router) deletedMessage(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.MessageIDPayload](r, client, EventDeletedMessage, data)
	if !ok {
		return
	}
	message, err := r.svc.Messages.Delete(ctx, in.MessageID)
	if err != nil {
		r.fail(client, EventDeletedMessage, err)
		return
	}
	r.succeed(client, EventDeletedMessage, "Successful", message)
}
