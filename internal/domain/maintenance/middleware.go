package maintenance

import (
	"time"

	"cube_market/internal/domain/maintenance/model"
	"cube_market/internal/domain/maintenance/service"

	"github.com/gin-gonic/gin"
)

// AuditMiddleware 写请求落一条数据源审计日志，旁路写入
func AuditMiddleware(svc service.MaintenanceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		entry := &model.DatasourceLog{
			Method:    c.Request.Method,
			Path:      c.FullPath(),
			Status:    c.Writer.Status(),
			LatencyMs: time.Since(start).Milliseconds(),
			ClientIP:  c.ClientIP(),
		}
		if userID := c.GetString("userID"); userID != "" {
			entry.UserID = &userID
		}
		svc.RecordLog(entry)
	}
}
