package ad

import (
	"cube_market/internal/domain/ad/handler"
	"cube_market/internal/domain/ad/repository"
	"cube_market/internal/domain/ad/service"
	cubeRepo "cube_market/internal/domain/cube/repository"
	userRepo "cube_market/internal/domain/user/repository"
	"cube_market/internal/domain/view"
	"cube_market/internal/pkg/config"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/qr"
	"cube_market/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AdModule 广告模块
type AdModule struct{}

func init() {
	registry.Register(&AdModule{})
}

func (m *AdModule) Name() string {
	return "ad"
}

func (m *AdModule) Priority() int {
	// 依赖 view 模块的共享打点服务
	return 11
}

func (m *AdModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewAdRepository(ctx.DB)
	svc := service.NewAdService(repo, cubeRepo.NewCubeRepository(ctx.DB))
	h := handler.NewAdHandler(
		svc,
		view.Shared(),
		userRepo.NewUserRepository(ctx.DB),
		qr.NewGenerator(config.GlobalConfig.Frontend.BaseURL),
		ctx.Uploader,
	)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AdHandler) {
	// 公开浏览，detail 带可选认证用于打点身份识别
	api := r.Group("/api/ads")
	{
		api.GET("/", h.List)
		api.GET("/:id", middleware.OptionalAuthMiddleware(), h.Get)
	}

	// 企业/管理端维护
	manage := r.Group("/api/corporate/ads")
	manage.Use(middleware.AuthMiddleware(), middleware.CorporateMiddleware())
	{
		manage.POST("/", h.Create)
		manage.PUT("/:id", h.Update)
		manage.DELETE("/:id", h.Delete)
		manage.POST("/:id/qr", h.GenerateQR)
	}
}
