package maintenance

import (
	grabRepo "cube_market/internal/domain/grab/repository"
	"cube_market/internal/domain/maintenance/handler"
	"cube_market/internal/domain/maintenance/repository"
	"cube_market/internal/domain/maintenance/service"
	notifRepo "cube_market/internal/domain/notification/repository"
	notifService "cube_market/internal/domain/notification/service"
	"cube_market/internal/pkg/config"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// MaintenanceModule 清扫模块
type MaintenanceModule struct{}

func init() {
	registry.Register(&MaintenanceModule{})
}

func (m *MaintenanceModule) Name() string {
	return "maintenance"
}

func (m *MaintenanceModule) Priority() int {
	// gin 在注册路由时固化 handler 链，审计中间件必须先于所有模块挂载
	return 0
}

func (m *MaintenanceModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewMaintenanceRepository(ctx.DB, grabRepo.NewGrabRepository(ctx.DB))
	// 通知模块此时尚未初始化，扇出服务自己建一份
	notifications := notifService.NewNotificationService(notifRepo.NewNotificationRepository(ctx.DB))
	svc := service.NewMaintenanceService(repo, ctx.Uploader, notifications)
	h := handler.NewMaintenanceHandler(svc)

	ctx.Router.Use(AuditMiddleware(svc))
	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.MaintenanceHandler) {
	// 外部 cron 调用，共享密钥守卫
	scripts := r.Group("/api/scripts")
	scripts.Use(middleware.ScriptTokenMiddleware(config.GlobalConfig.Script.Token))
	{
		scripts.POST("/expired-activation-sweep", h.ExpiredActivationSweep)
		scripts.POST("/cube-expiry-sweep", h.CubeExpirySweep)
		scripts.POST("/flush-logs", h.FlushLogs)
	}
}
