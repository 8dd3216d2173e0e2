package view

import (
	"cube_market/internal/domain/view/handler"
	"cube_market/internal/domain/view/repository"
	"cube_market/internal/domain/view/service"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ViewModule 浏览打点模块
type ViewModule struct{}

// shared 打点服务共享实例，魔方/广告模块复用（它们优先级更低，Init 时已就绪）
var shared service.ViewService

func init() {
	registry.Register(&ViewModule{})
}

func (m *ViewModule) Name() string {
	return "view"
}

func (m *ViewModule) Priority() int {
	// 在魔方/广告模块之前初始化
	return 3
}

func (m *ViewModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewViewRepository(ctx.DB)
	shared = service.NewViewService(repo, ctx.Metrics)
	h := handler.NewViewHandler(shared)

	setupRoutes(ctx.Router, h)
	return nil
}

// Shared 返回共享的打点服务
func Shared() service.ViewService {
	return shared
}

func setupRoutes(r *gin.Engine, h *handler.ViewHandler) {
	// 计数查询归企业/管理端
	g := r.Group("/api/views")
	g.Use(middleware.AuthMiddleware(), middleware.CorporateMiddleware())
	{
		g.GET("/cubes/counts", h.BatchCountCubeViewers)
		g.GET("/cubes/:id", h.CountCubeViewers)
		g.GET("/ads/counts", h.BatchCountAdViewers)
		g.GET("/ads/:id", h.CountAdViewers)
	}
}
