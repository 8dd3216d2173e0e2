package middleware

import (
	"crypto/subtle"
	"net/http"

	"cube_market/pkg/response"

	"github.com/gin-gonic/gin"
)

// ScriptTokenMiddleware 定时任务端点认证
// Authorization 头必须等于部署时配置的共享密钥，常量时间比较防时序攻击
func ScriptTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("Authorization")
		if token == "" ||
			subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			response.Error(c, http.StatusUnauthorized, response.ErrNoPermission, "Invalid script token")
			c.Abort()
			return
		}
		c.Next()
	}
}
