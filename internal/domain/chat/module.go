package chat

import (
	"cube_market/internal/domain/chat/handler"
	"cube_market/internal/domain/chat/repository"
	"cube_market/internal/domain/chat/service"
	cubeRepo "cube_market/internal/domain/cube/repository"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ChatModule 聊天模块
type ChatModule struct{}

func init() {
	registry.Register(&ChatModule{})
}

func (m *ChatModule) Name() string {
	return "chat"
}

func (m *ChatModule) Priority() int {
	return 13
}

func (m *ChatModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewChatRepository(ctx.DB)
	svc := service.NewChatService(repo, cubeRepo.NewCubeRepository(ctx.DB))
	h := handler.NewChatHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ChatHandler) {
	g := r.Group("/api/chat")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("/rooms", h.OpenRoom)
		g.GET("/rooms", h.ListRooms)
		g.GET("/rooms/:id/messages", h.ListMessages)
		g.POST("/rooms/:id/messages", h.SendMessage)
		g.GET("/rooms/:id/unread", h.CountUnread)
	}
}
