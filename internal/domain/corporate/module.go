package corporate

import (
	"cube_market/internal/domain/corporate/handler"
	"cube_market/internal/domain/corporate/repository"
	"cube_market/internal/domain/corporate/service"
	userRepo "cube_market/internal/domain/user/repository"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CorporateModule 企业模块
type CorporateModule struct{}

func init() {
	registry.Register(&CorporateModule{})
}

func (m *CorporateModule) Name() string {
	return "corporate"
}

func (m *CorporateModule) Priority() int {
	// 在用户模块之后，魔方/广告模块之前
	return 5
}

func (m *CorporateModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewCorporateRepository(ctx.DB)
	svc := service.NewCorporateService(repo)
	h := handler.NewCorporateHandler(svc, userRepo.NewUserRepository(ctx.DB))

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CorporateHandler) {
	// 公开：世界/社区浏览
	api := r.Group("/api")
	{
		api.GET("/worlds", h.ListWorlds)
		api.GET("/worlds/:id", h.GetWorld)
		api.GET("/communities", h.ListCommunities)
	}

	// 登录用户：加入/退出世界
	member := r.Group("/api/worlds")
	member.Use(middleware.AuthMiddleware())
	{
		member.POST("/:id/join", h.JoinWorld)
		member.POST("/:id/leave", h.LeaveWorld)
	}

	// 企业端：世界/社区管理
	corp := r.Group("/api/corporate")
	corp.Use(middleware.AuthMiddleware(), middleware.CorporateMiddleware())
	{
		corp.POST("/worlds", h.CreateWorld)
		corp.PUT("/worlds/:id", h.UpdateWorld)
		corp.DELETE("/worlds/:id", h.DeleteWorld)
		corp.POST("/communities", h.CreateCommunity)
		corp.PUT("/communities/:id", h.UpdateCommunity)
		corp.DELETE("/communities/:id", h.DeleteCommunity)
	}

	// 管理端：企业 CRUD
	admin := r.Group("/api/admin/corporates")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/", h.CreateCorporate)
		admin.GET("/", h.ListCorporates)
		admin.GET("/:id", h.GetCorporate)
		admin.PUT("/:id", h.UpdateCorporate)
		admin.DELETE("/:id", h.DeleteCorporate)
	}
}
