package hub

import (
	"context"
	"sync"
	"time"

	"realtime-chat/internal/domain"
	"realtime-chat/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// 包级别的 WebSocket 常量，供 hub 和 client 包内使用
const (
	// 写一条消息的超时时间
	writeWait = 10 * time.Second

	// 等待下一个 pong 的超时时间
	pongWait = 60 * time.Second

	// 发送 ping 的周期，必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10

	// 允许的最大入站消息大小
	maxMessageSize = 64 * 1024

	// 订阅中断后的重试间隔
	relayRetryDelay = time.Second
)

// Hub 维护全部活跃连接以及 房间 -> 连接集合 的映射，并负责扇出。
type Hub struct {
	instanceID string

	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[uint]map[*Client]struct{}

	// 可选：跨实例转发。为 nil 时只投递本地连接。
	relay repository.StateRepository
}

// NewHub 创建并返回一个新的 Hub 实例。relay 可以为 nil。
func NewHub(relay repository.StateRepository) *Hub {
	return &Hub{
		instanceID: uuid.NewString(),
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[uint]map[*Client]struct{}),
		relay:      relay,
	}
}

// Run 运行跨实例订阅，直到 ctx 结束；结束时关闭全部连接。
// 它应该在一个单独的 goroutine 中运行。
func (h *Hub) Run(ctx context.Context) {
	log := logrus.WithFields(logrus.Fields{"component": "hub", "instance_id": h.instanceID})
	log.Info("Hub is running...")

	if h.relay != nil {
		for ctx.Err() == nil {
			if err := h.relay.SubscribeFanout(ctx, h.deliverRelayed); err != nil {
				log.WithError(err).Warn("Fanout subscription interrupted, retrying")
				select {
				case <-ctx.Done():
				case <-time.After(relayRetryDelay):
				}
			}
		}
	} else {
		<-ctx.Done()
	}

	log.Info("Hub is shutting down...")
	h.closeAll()
}

// Register 将已认证的连接加入全局集合。
func (h *Hub) Register(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	client.logger().Info("Client registered to Hub")
}

// Unregister 将连接从全局集合和所有房间中移除，并关闭它。
func (h *Hub) Unregister(client *Client) {
	if client == nil {
		return
	}
	h.mu.Lock()
	delete(h.clients, client)
	for roomID, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	client.Close()
	client.logger().Info("Client unregistered from Hub")
}

// Subscribe 将连接订阅到房间频道。重复订阅无副作用。
func (h *Hub) Subscribe(client *Client, roomID uint) {
	h.mu.Lock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[roomID] = members
	}
	members[client] = struct{}{}
	h.mu.Unlock()
	client.logger().WithField("room_id", roomID).Debug("Client subscribed to room")
}

// Unsubscribe 取消连接对房间频道的订阅。
func (h *Hub) Unsubscribe(client *Client, roomID uint) {
	h.mu.Lock()
	if members, ok := h.rooms[roomID]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()
	client.logger().WithField("room_id", roomID).Debug("Client unsubscribed from room")
}

// IsSubscribed 报告连接是否订阅了房间。
func (h *Hub) IsSubscribed(client *Client, roomID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[roomID][client]
	return ok
}

// ClientCount 返回本实例的连接数。
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RoomSize 返回本实例订阅了房间的连接数。
func (h *Hub) RoomSize(roomID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Emit 直接发送给单个连接。
func (h *Hub) Emit(client *Client, event string, payload any) {
	frame, err := domain.EncodeFrame(event, payload)
	if err != nil {
		client.logger().WithError(err).WithField("event", event).Error("Failed to encode frame")
		return
	}
	client.Send(frame)
}

// BroadcastAll 发送给所有连接 (跨实例)，except 为 nil 时包括发送者。
func (h *Hub) BroadcastAll(ctx context.Context, event string, payload any, except *Client) {
	h.broadcast(ctx, 0, event, payload, except)
}

// BroadcastRoom 发送给订阅了 roomID 的连接 (跨实例)。
func (h *Hub) BroadcastRoom(ctx context.Context, roomID uint, event string, payload any, except *Client) {
	if roomID == 0 {
		return
	}
	h.broadcast(ctx, roomID, event, payload, except)
}

func (h *Hub) broadcast(ctx context.Context, roomID uint, event string, payload any, except *Client) {
	logCtx := logrus.WithFields(logrus.Fields{"event": event, "room_id": roomID})
	frame, err := domain.EncodeFrame(event, payload)
	if err != nil {
		logCtx.WithError(err).Error("Failed to encode broadcast frame")
		return
	}

	exclude := ""
	if except != nil {
		exclude = except.ID()
	}
	h.deliver(roomID, exclude, frame)

	if h.relay != nil {
		err := h.relay.PublishFanout(ctx, repository.Fanout{
			Origin:  h.instanceID,
			RoomID:  roomID,
			Exclude: exclude,
			Frame:   frame,
		})
		if err != nil {
			// 本地连接已送达，其他实例错过这一次
			logCtx.WithError(err).Warn("Failed to relay broadcast to other instances")
		}
	}
}

// deliverRelayed 处理来自其他实例的广播，忽略本实例发布的消息。
func (h *Hub) deliverRelayed(f repository.Fanout) {
	if f.Origin == h.instanceID {
		return
	}
	h.deliver(f.RoomID, f.Exclude, f.Frame)
}

// deliver 投递到本地连接。roomID 为 0 表示全部连接。
func (h *Hub) deliver(roomID uint, exclude string, frame []byte) {
	h.mu.RLock()
	set := h.clients
	if roomID != 0 {
		set = h.rooms[roomID]
	}
	// 创建一个接收者列表的副本，以避免长时间持有锁
	recipients := make([]*Client, 0, len(set))
	for client := range set {
		if exclude == "" || client.ID() != exclude {
			recipients = append(recipients, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range recipients {
		client.Send(frame)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]struct{})
	h.rooms = make(map[uint]map[*Client]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		client.Close()
	}
}
