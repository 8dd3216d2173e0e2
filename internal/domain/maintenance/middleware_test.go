package maintenance

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cube_market/internal/domain/maintenance/model"
	"cube_market/internal/domain/maintenance/repository"
	"cube_market/internal/domain/user"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	entries []*model.DatasourceLog
}

func (s *recordingService) ExpiredActivationSweep() (*repository.ActivationSweepResult, error) {
	return nil, nil
}

func (s *recordingService) CubeExpirySweep() (*repository.ExpirySweepResult, error) {
	return nil, nil
}

func (s *recordingService) FlushLogs() error { return nil }

func (s *recordingService) RecordLog(entry *model.DatasourceLog) {
	s.entries = append(s.entries, entry)
}

func TestAuditMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	t.Run("mutation on a route behind the middleware is logged", func(t *testing.T) {
		svc := &recordingService{}
		r := gin.New()
		r.Use(AuditMiddleware(svc))
		r.POST("/api/things", ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/api/things", nil))

		require.Len(t, svc.entries, 1)
		assert.Equal(t, "POST", svc.entries[0].Method)
		assert.Equal(t, "/api/things", svc.entries[0].Path)
		assert.Equal(t, http.StatusOK, svc.entries[0].Status)
	})

	t.Run("reads are skipped", func(t *testing.T) {
		svc := &recordingService{}
		r := gin.New()
		r.Use(AuditMiddleware(svc))
		r.GET("/api/things", ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/api/things", nil))

		assert.Empty(t, svc.entries)
	})

	t.Run("route registered before the middleware is never audited", func(t *testing.T) {
		// gin 注册路由时固化 handler 链，晚挂的中间件对已有路由不生效
		svc := &recordingService{}
		r := gin.New()
		r.POST("/api/early", ok)
		r.Use(AuditMiddleware(svc))
		r.POST("/api/late", ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/api/early", nil))
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/api/late", nil))

		require.Len(t, svc.entries, 1)
		assert.Equal(t, "/api/late", svc.entries[0].Path)
	})
}

func TestMaintenanceModulePriority(t *testing.T) {
	// 审计中间件在 Init 里挂载，维护模块必须排在最先注册路由的用户模块之前
	assert.Less(t, (&MaintenanceModule{}).Priority(), (&user.UserModule{}).Priority())
}
