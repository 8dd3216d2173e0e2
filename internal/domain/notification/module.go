package notification

import (
	"cube_market/internal/domain/notification/handler"
	"cube_market/internal/domain/notification/repository"
	"cube_market/internal/domain/notification/service"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// NotificationModule 通知模块
type NotificationModule struct{}

// shared 扇出服务共享实例，抢购/维护模块复用（它们优先级更低，Init 时已就绪）
var shared service.NotificationService

func init() {
	registry.Register(&NotificationModule{})
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) Priority() int {
	// 在抢购/维护模块之前初始化
	return 4
}

func (m *NotificationModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewNotificationRepository(ctx.DB)
	shared = service.NewNotificationService(repo)
	h := handler.NewNotificationHandler(shared)

	setupRoutes(ctx.Router, h)
	return nil
}

// Shared 返回共享的扇出服务
func Shared() service.NotificationService {
	return shared
}

func setupRoutes(r *gin.Engine, h *handler.NotificationHandler) {
	me := r.Group("/api/notifications")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("/", h.ListMine)
		me.GET("/unread", h.CountUnread)
		me.PUT("/read", h.MarkAllRead)
		me.PUT("/:id/read", h.MarkRead)
	}

	// 管理端手动扇出
	admin := r.Group("/api/admin/notifications")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/", h.FanOut)
	}
}
