package domain

import "encoding/json"

// 信封状态
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// ErrorInfo 是失败信封携带的结构化错误
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Envelope 是每个请求事件统一的响应格式
type Envelope struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	Error   *ErrorInfo `json:"error"`
	Data    any        `json:"data"`
}

// Success 构造成功信封
func Success(message string, data any) Envelope {
	return Envelope{Status: StatusSuccess, Message: message, Data: data}
}

// Fail 构造失败信封，info 可以为 nil
func Fail(message string, info *ErrorInfo) Envelope {
	return Envelope{Status: StatusFail, Message: message, Error: info}
}

// Frame 是 socket 上的一条 JSON 文本消息: {"event": ..., "data": ...}
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeFrame 序列化一条出站帧
func EncodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
