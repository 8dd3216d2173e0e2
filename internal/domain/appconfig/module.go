package appconfig

import (
	"cube_market/internal/domain/appconfig/handler"
	"cube_market/internal/domain/appconfig/repository"
	"cube_market/internal/domain/appconfig/service"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AppConfigModule 应用配置模块
type AppConfigModule struct{}

func init() {
	registry.Register(&AppConfigModule{})
}

func (m *AppConfigModule) Name() string {
	return "appconfig"
}

func (m *AppConfigModule) Priority() int {
	return 14
}

func (m *AppConfigModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewAppConfigRepository(ctx.DB)
	svc := service.NewAppConfigService(repo, ctx.Redis)
	h := handler.NewAppConfigHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AppConfigHandler) {
	// 读公开，前端按键取开关
	r.GET("/api/configs/:key", h.Get)

	admin := r.Group("/api/admin/configs")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/", h.Create)
		admin.GET("/", h.List)
		admin.PUT("/:key", h.Update)
		admin.DELETE("/:key", h.Delete)
	}
}
