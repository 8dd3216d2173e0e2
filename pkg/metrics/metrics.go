package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector HTTP 与业务指标收集器
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	grabsTotal *prometheus.CounterVec
	viewsTotal *prometheus.CounterVec
}

// NewCollector 创建指标收集器
func NewCollector() *Collector {
	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		grabsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grab_attempts_total",
				Help: "Total grab attempts by outcome (accepted/duplicate/quota_exceeded/inactive)",
			},
			[]string{"outcome"},
		),
		viewsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "view_events_total",
				Help: "Total tracked view events by subject type and outcome",
			},
			[]string{"subject", "outcome"},
		),
	}
}

// Middleware gin 中间件：记录请求数与耗时
func (m *Collector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// 使用路由模板而不是原始路径，避免标签基数爆炸
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		m.httpRequestsTotal.WithLabelValues(
			c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpRequestDuration.WithLabelValues(
			c.Request.Method, endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// ObserveGrab 记录一次抢购结果
func (m *Collector) ObserveGrab(outcome string) {
	m.grabsTotal.WithLabelValues(outcome).Inc()
}

// ObserveView 记录一次浏览事件
func (m *Collector) ObserveView(subject, outcome string) {
	m.viewsTotal.WithLabelValues(subject, outcome).Inc()
}

// Handler /metrics 端点
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
