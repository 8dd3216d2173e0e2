package handler

import (
	"errors"
	"net/http"

	"cube_market/internal/domain/appconfig/service"
	"cube_market/pkg/response"
	"cube_market/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppConfigHandler 应用配置处理器
type AppConfigHandler struct {
	service service.AppConfigService
}

func NewAppConfigHandler(svc service.AppConfigService) *AppConfigHandler {
	return &AppConfigHandler{service: svc}
}

// ConfigInput 配置写入输入
type ConfigInput struct {
	Key         string `json:"key" binding:"required,max=100"`
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

func (h *AppConfigHandler) Create(c *gin.Context) {
	var input ConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cfg, err := h.service.Create(c.Request.Context(), input.Key, input.Value, input.Description)
	if err != nil {
		if errors.Is(err, service.ErrKeyExists) {
			response.Fail(c, response.ErrInvalidParam, "Config key already exists")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, cfg)
}

func (h *AppConfigHandler) Get(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrNotFound, "Config not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, cfg)
}

func (h *AppConfigHandler) List(c *gin.Context) {
	var q utils.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	rows, total, err := h.service.List(&q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, utils.PageResult{List: rows, Total: total, Page: q.Page, Limit: q.Limit})
}

func (h *AppConfigHandler) Update(c *gin.Context) {
	var input struct {
		Value       string `json:"value" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cfg, err := h.service.Update(c.Request.Context(), c.Param("key"), input.Value, input.Description)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrNotFound, "Config not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, cfg)
}

func (h *AppConfigHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("key")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrNotFound, "Config not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "Config deleted")
}
