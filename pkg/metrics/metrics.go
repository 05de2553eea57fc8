package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP 请求指标
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carepoint_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carepoint_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// 认证指标
	loginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carepoint_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"kind", "result"},
	)

	// 工作流指标
	workflowEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carepoint_workflow_events_total",
			Help: "Total number of workflow events",
		},
		[]string{"event"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carepoint_notifications_total",
			Help: "Total number of notifications enqueued",
		},
		[]string{"recipient"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		loginAttemptsTotal,
		workflowEventsTotal,
		notificationsTotal,
	)
}

// 工作流事件名
const (
	EventOrderCreated        = "order_created"
	EventAssignmentCreated   = "assignment_created"
	EventAssignmentUpdated   = "assignment_updated"
	EventAssignmentCompleted = "assignment_completed"
	EventReportCreated       = "report_created"
	EventAttachmentRejected  = "attachment_rejected"
)

// RecordLogin 记录一次登录尝试
func RecordLogin(kind string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	loginAttemptsTotal.WithLabelValues(kind, result).Inc()
}

// RecordWorkflowEvent 记录工作流事件
func RecordWorkflowEvent(event string) {
	workflowEventsTotal.WithLabelValues(event).Inc()
}

// RecordNotification 记录通知入队（recipient: staff | patient）
func RecordNotification(recipient string) {
	notificationsTotal.WithLabelValues(recipient).Inc()
}

// Middleware HTTP 请求指标中间件
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler Prometheus 抓取端点
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
