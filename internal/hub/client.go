package hub

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// sendBufferSize 是每个连接出站队列的容量
const sendBufferSize = 256

// Dispatcher 处理单个连接上读到的一帧。同一连接的帧按顺序处理。
type Dispatcher interface {
	Dispatch(ctx context.Context, client *Client, raw []byte)
}

// Client 代表一个连接到 Hub 的 WebSocket 客户端。
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn // 测试中可以为 nil

	// 当前连接的用户与会话 cookie；logIn / logOut 会替换它们
	credMu     sync.RWMutex
	userID     uint
	credential string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient 创建一个新的 Client 实例
func NewClient(hub *Hub, conn *websocket.Conn, userID uint, credential string) *Client {
	if hub == nil {
		panic("Hub cannot be nil for Client")
	}
	return &Client{
		id:         uuid.NewString(),
		hub:        hub,
		conn:       conn,
		userID:     userID,
		credential: credential,
		send:       make(chan []byte, sendBufferSize),
		done:       make(chan struct{}),
	}
}

func (c *Client) ID() string            { return c.id }
func (c *Client) Hub() *Hub             { return c.hub }
func (c *Client) Done() <-chan struct{} { return c.done }

// UserID 返回最近一次认证的用户 ID (握手或 logIn)。
func (c *Client) UserID() uint {
	c.credMu.RLock()
	defer c.credMu.RUnlock()
	return c.userID
}

// Credential 返回当前连接持有的会话 cookie。
func (c *Client) Credential() string {
	c.credMu.RLock()
	defer c.credMu.RUnlock()
	return c.credential
}

// SetCredential 替换连接持有的会话 cookie，用户 ID 不变。
func (c *Client) SetCredential(cookie string) {
	c.credMu.Lock()
	c.credential = cookie
	c.credMu.Unlock()
}

// SetIdentity 同时替换用户 ID 和会话 cookie (socket logIn)。
func (c *Client) SetIdentity(userID uint, cookie string) {
	c.credMu.Lock()
	c.userID = userID
	c.credential = cookie
	c.credMu.Unlock()
}

// Send 将一帧放入出站队列 (非阻塞)。连接已关闭或队列已满时返回 false。
func (c *Client) Send(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		// 慢客户端：丢弃这一帧，由 WritePump 或心跳超时负责断开
		c.logger().Warn("Client send channel full, message dropped")
		return false
	}
}

// Close 强制关闭连接。重复调用无副作用。
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Serve 注册到 Hub 并运行读写循环，阻塞直到连接结束。
func (c *Client) Serve(ctx context.Context, dispatcher Dispatcher) {
	c.hub.Register(c)
	go c.WritePump()
	c.ReadPump(ctx, dispatcher)
}

// ReadPump 从 WebSocket 读取帧并交给 dispatcher 顺序处理。
func (c *Client) ReadPump(ctx context.Context, dispatcher Dispatcher) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		c.logger().Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize) // 设置最大消息大小
	// 设置初始读取超时和 Pong 处理程序
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger().WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				c.logger().Debug("WebSocket connection closed")
			}
			return
		}

		select {
		case <-c.done:
			// 已被强制关闭，不再处理后续帧
			return
		default:
		}

		if messageType != websocket.TextMessage {
			c.logger().Debugf("Ignoring non-text message type: %d", messageType)
			continue
		}
		dispatcher.Dispatch(ctx, c, message)
	}
}

// WritePump 将出站队列写入 WebSocket，并定期发送 Ping。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close() // 使 ReadPump 退出
		c.logger().Debug("writePump exited")
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger().WithError(err).Warn("Failed to write message to websocket")
				return
			}

		case <-c.done:
			// 先写完已排队的帧，再发送关闭帧
			c.drain()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "connection closed by server"))
			return

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger().WithError(err).Warn("Failed to send ping message")
				return
			}
		}
	}
}

func (c *Client) drain() {
	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *Client) logger() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{"conn_id": c.id, "user_id": c.UserID()})
}
