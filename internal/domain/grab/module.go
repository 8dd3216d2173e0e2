package grab

import (
	adRepo "cube_market/internal/domain/ad/repository"
	cubeRepo "cube_market/internal/domain/cube/repository"
	"cube_market/internal/domain/grab/handler"
	"cube_market/internal/domain/grab/repository"
	"cube_market/internal/domain/grab/service"
	"cube_market/internal/domain/notification"
	userRepo "cube_market/internal/domain/user/repository"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// GrabModule 抢购模块
type GrabModule struct{}

func init() {
	registry.Register(&GrabModule{})
}

func (m *GrabModule) Name() string {
	return "grab"
}

func (m *GrabModule) Priority() int {
	// 依赖 notification 模块的共享扇出服务
	return 12
}

func (m *GrabModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewGrabRepository(ctx.DB)
	svc := service.NewGrabService(
		repo,
		adRepo.NewAdRepository(ctx.DB),
		cubeRepo.NewCubeRepository(ctx.DB),
		notification.Shared(),
		ctx.Metrics,
	)
	h := handler.NewGrabHandler(svc, userRepo.NewUserRepository(ctx.DB))

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.GrabHandler) {
	me := r.Group("/api/grabs")
	me.Use(middleware.AuthMiddleware())
	{
		me.POST("/", h.Claim)
		me.GET("/me", h.ListMine)
	}

	// 商户核销与查询
	manage := r.Group("/api/corporate/grabs")
	manage.Use(middleware.AuthMiddleware(), middleware.CorporateMiddleware())
	{
		manage.GET("/:id", h.Get)
		manage.PUT("/:id/validate", h.Validate)
	}

	admin := r.Group("/api/admin/grabs")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/", h.List)
	}
}
