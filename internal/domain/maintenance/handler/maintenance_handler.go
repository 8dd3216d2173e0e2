package handler

import (
	"net/http"

	"cube_market/internal/domain/maintenance/service"
	"cube_market/pkg/response"

	"github.com/gin-gonic/gin"
)

// MaintenanceHandler 清扫脚本处理器
type MaintenanceHandler struct {
	service service.MaintenanceService
}

func NewMaintenanceHandler(svc service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{service: svc}
}

func (h *MaintenanceHandler) ExpiredActivationSweep(c *gin.Context) {
	result, err := h.service.ExpiredActivationSweep()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, result)
}

func (h *MaintenanceHandler) CubeExpirySweep(c *gin.Context) {
	result, err := h.service.CubeExpirySweep()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, result)
}

func (h *MaintenanceHandler) FlushLogs(c *gin.Context) {
	if err := h.service.FlushLogs(); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, "Datasource logs flushed")
}
