package cube

import (
	"cube_market/internal/domain/cube/handler"
	"cube_market/internal/domain/cube/repository"
	"cube_market/internal/domain/cube/service"
	userRepo "cube_market/internal/domain/user/repository"
	"cube_market/internal/domain/view"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CubeModule 魔方模块
type CubeModule struct{}

func init() {
	registry.Register(&CubeModule{})
}

func (m *CubeModule) Name() string {
	return "cube"
}

func (m *CubeModule) Priority() int {
	// 依赖 view 模块的共享打点服务
	return 10
}

func (m *CubeModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewCubeRepository(ctx.DB)
	svc := service.NewCubeService(repo)
	h := handler.NewCubeHandler(svc, view.Shared(), userRepo.NewUserRepository(ctx.DB))

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CubeHandler) {
	// 公开浏览，detail 带可选认证用于打点身份识别
	api := r.Group("/api/cubes")
	{
		api.GET("/", h.List)
		api.GET("/:id", middleware.OptionalAuthMiddleware(), h.Get)
	}

	// 企业/管理端维护
	manage := r.Group("/api/corporate/cubes")
	manage.Use(middleware.AuthMiddleware(), middleware.CorporateMiddleware())
	{
		manage.POST("/", h.Create)
		manage.PUT("/:id", h.Update)
		manage.PUT("/:id/tags", h.UpdateTags)
		manage.DELETE("/:id", h.Delete)
	}
}
