package handler

import (
	"net/http"
	"strings"

	"cube_market/internal/domain/view/model"
	"cube_market/internal/domain/view/service"
	"cube_market/pkg/response"

	"github.com/gin-gonic/gin"
)

// ViewHandler 浏览计数查询处理器
type ViewHandler struct {
	service service.ViewService
}

func NewViewHandler(svc service.ViewService) *ViewHandler {
	return &ViewHandler{service: svc}
}

// CountCubeViewers 单个魔方的终身去重访客数
func (h *ViewHandler) CountCubeViewers(c *gin.Context) {
	count, err := h.service.CountViewers(model.SubjectCube, c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"id": c.Param("id"), "viewers": count})
}

// CountAdViewers 单个广告的终身去重访客数
func (h *ViewHandler) CountAdViewers(c *gin.Context) {
	count, err := h.service.CountViewers(model.SubjectAd, c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, gin.H{"id": c.Param("id"), "viewers": count})
}

// BatchCountCubeViewers 批量魔方访客数，ids 逗号分隔
func (h *ViewHandler) BatchCountCubeViewers(c *gin.Context) {
	h.batchCount(c, model.SubjectCube)
}

// BatchCountAdViewers 批量广告访客数
func (h *ViewHandler) BatchCountAdViewers(c *gin.Context) {
	h.batchCount(c, model.SubjectAd)
}

func (h *ViewHandler) batchCount(c *gin.Context, subjectType string) {
	raw := c.Query("ids")
	if raw == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "ids is required")
		return
	}

	ids := strings.Split(raw, ",")
	counts, err := h.service.BatchCountViewers(subjectType, ids)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, counts)
}
