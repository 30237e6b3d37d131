package websocket

import (
	"context"
	"encoding/json"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/dto"
	"realtime-chat/internal/hub"
)

func (r *Router) getAllRooms(ctx context.Context, client *hub.Client, _ json.RawMessage) {
	rooms, err := r.svc.Rooms.List(ctx)
	if err != nil {
		r.fail(client, EventGetAllRooms, err)
		return
	}
	r.succeed(client, EventGetAllRooms, "Successful", rooms)
}

func (r *Router) getRoomByID(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.RoomIDPayload](r, client, EventGetRoomByID, data)
	if !ok {
		return
	}
	room, err := r.svc.Rooms.Get(ctx, in.RoomID)
	if err != nil {
		r.fail(client, EventGetRoomByID, err)
		return
	}
	r.succeed(client, EventGetRoomByID, "Successful", room)
}

// newRoom 创建房间并订阅创建者；其他连接收到广播，创建者收到直接回复。
func (r *Router) newRoom(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.RoomPayload](r, client, EventNewRoom, data)
	if !ok {
		return
	}
	owner, ok := r.actingUser(ctx, client, EventNewRoom)
	if !ok {
		return
	}
	room, err := r.svc.Rooms.Create(ctx, owner.ID, in.Title, in.Description)
	if err != nil {
		r.fail(client, EventNewRoom, err)
		return
	}
	r.hub.Subscribe(client, room.ID)

	resp := domain.Success("Successful", room)
	r.hub.BroadcastAll(ctx, ResponseEvent(EventNewRoom), resp, client)
	r.hub.Emit(client, ResponseEvent(EventNewRoom), resp)
}

// updatedRoom 同时广播到全局与房间频道。
func (r *Router) updatedRoom(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.RoomPayload](r, client, EventUpdatedRoom, data)
	if !ok {
		return
	}
	room, err := r.svc.Rooms.Update(ctx, in.RoomID, in.Title, in.Description)
	if err != nil {
		r.fail(client, EventUpdatedRoom, err)
		return
	}
	r.fanout(ctx, room.ID, ResponseEvent(EventUpdatedRoom), domain.Success("Successful", room))
}

func (r *Router) deletedRoom(ctx context.Context, client *hub.Client, data json.RawMessage) {
	in, ok := bind[dto.RoomIDPayload](r, client, EventDeletedRoom, data)
	if !ok {
		return
	}
	room, err := r.svc.Rooms.Delete(ctx, in.RoomID)
	if err != nil {
		r.fail(client, EventDeletedRoom, err)
		return
	}
	r.succeed(client, EventDeletedRoom, "Successful", room)
}

// fanout 发送两次：一次给全部连接，一次给房间频道。
func (r *Router) fanout(ctx context.Context, roomID uint, event string, resp domain.Envelope) {
	r.hub.BroadcastAll(ctx, event, resp, nil)
	r.hub.BroadcastRoom(ctx, roomID, event, resp, nil)
}
