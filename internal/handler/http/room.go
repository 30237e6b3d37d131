package http

import (
	"net/http"
	"strconv"

	"realtime-chat/internal/service"

	"github.com/gin-gonic/gin"
)

// RoomHandler 提供只读的房间查询
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 创建 RoomHandler 实例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	if roomService == nil {
		panic("RoomService cannot be nil for RoomHandler")
	}
	return &RoomHandler{roomService: roomService}
}

// ListRooms 返回全部房间
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.List(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Successful", rooms)
}

// GetRoom 返回单个房间。URL: /api/rooms/:roomId
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Param("roomId"), 10, 32)
	if err != nil || roomID == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid room ID format", string(service.KindInvalidInput))
		return
	}

	room, err := h.roomService.Get(c.Request.Context(), uint(roomID))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Successful", room)
}
