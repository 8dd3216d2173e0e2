package common

import (
	"cube_market/internal/domain/common/handler"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/registry"
	"cube_market/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	h := handler.NewCommonHandler(ctx.DB, ctx.Redis, ctx.Uploader)
	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CommonHandler) {
	r.POST("/upload", middleware.AuthMiddleware(), h.UploadFiles)
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", metrics.Handler())
}
