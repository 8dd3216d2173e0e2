package handler

import (
	"errors"
	"net/http"

	"cube_market/internal/domain/chat/service"
	"cube_market/pkg/response"
	"cube_market/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChatHandler 聊天处理器
type ChatHandler struct {
	service service.ChatService
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// OpenRoomInput 开房间输入
type OpenRoomInput struct {
	CubeID string `json:"cubeId" binding:"required,uuid"`
}

// SendMessageInput 发消息输入
type SendMessageInput struct {
	Content string `json:"content" binding:"required,max=2000"`
}

func (h *ChatHandler) OpenRoom(c *gin.Context) {
	var input OpenRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	room, err := h.service.OpenRoom(input.CubeID, c.GetString("userID"))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrCubeNotFound, "Cube not found")
		case errors.Is(err, service.ErrNoMerchant):
			response.Fail(c, response.ErrChatRoomNotFound, "Cube has no owner to chat with")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, room)
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	rooms, total, err := h.service.ListRooms(c.GetString("userID"), &q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: rooms, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	msg, err := h.service.SendMessage(c.Param("id"), c.GetString("userID"), input.Content)
	if err != nil {
		h.roomError(c, err)
		return
	}
	response.Success(c, msg)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	msgs, total, err := h.service.ListMessages(c.Param("id"), c.GetString("userID"), &q)
	if err != nil {
		h.roomError(c, err)
		return
	}
	response.Success(c, utils.PageResult{List: msgs, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *ChatHandler) CountUnread(c *gin.Context) {
	total, err := h.service.CountUnread(c.Param("id"), c.GetString("userID"))
	if err != nil {
		h.roomError(c, err)
		return
	}
	response.Success(c, gin.H{"unread": total})
}

func (h *ChatHandler) roomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, response.ErrChatRoomNotFound, "Chat room not found")
	case errors.Is(err, service.ErrNotParticipant):
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Not a participant of this room")
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
