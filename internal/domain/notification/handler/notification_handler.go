package handler

import (
	"errors"
	"net/http"

	"cube_market/internal/domain/notification/service"
	"cube_market/pkg/response"
	"cube_market/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NotificationHandler 通知处理器
type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: svc}
}

// FanOutInput 管理端手动扇出输入
type FanOutInput struct {
	Audience    string   `json:"audience" binding:"required,oneof=ADMIN CORPORATE USER WORLD_OWNER"`
	CorporateID string   `json:"corporateId"`
	WorldID     string   `json:"worldId"`
	UserIDs     []string `json:"userIds"`
	Type        string   `json:"type" binding:"required"`
	Message     string   `json:"message" binding:"required"`
	CubeID      *string  `json:"cubeId"`
	AdID        *string  `json:"adId"`
	GrabID      *string  `json:"grabId"`
}

func (h *NotificationHandler) FanOut(c *gin.Context) {
	var input FanOutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	rows, err := h.service.FanOut(&service.FanOutInput{
		Audience:    input.Audience,
		CorporateID: input.CorporateID,
		WorldID:     input.WorldID,
		UserIDs:     input.UserIDs,
		Type:        input.Type,
		Message:     input.Message,
		CubeID:      input.CubeID,
		AdID:        input.AdID,
		GrabID:      input.GrabID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrWorldNotFound, "World not found")
			return
		}
		// 受众参数缺失是调用方编程错误，按内部错误暴露
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"recipients": len(rows), "notifications": rows})
}

func (h *NotificationHandler) ListMine(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	unreadOnly := c.Query("unread") == "true"
	rows, total, err := h.service.ListMine(c.GetString("userID"), &q, unreadOnly)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: rows, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *NotificationHandler) CountUnread(c *gin.Context) {
	total, err := h.service.CountUnread(c.GetString("userID"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"unread": total})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	n, err := h.service.MarkRead(c.GetString("userID"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, response.ErrNotFound, "Notification not found")
		case errors.Is(err, service.ErrNotRecipient):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Notification belongs to another user")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}
	response.Success(c, n)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.GetString("userID")); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "All notifications marked as read")
}
