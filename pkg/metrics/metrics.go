package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal API请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration API请求处理时长
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// IdeasSubmittedTotal 提交的提案总数
	IdeasSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ideku_ideas_submitted_total",
			Help: "Total number of ideas submitted",
		},
	)

	// ApprovalActionsTotal 审批动作总数，按动作类型区分
	ApprovalActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideku_approval_actions_total",
			Help: "Total number of approval actions by type",
		},
		[]string{"action"},
	)

	// IdeasAutoRejectedTotal 因超时被自动置为 Inactive 的提案数
	IdeasAutoRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ideku_ideas_auto_rejected_total",
			Help: "Total number of ideas auto-rejected for inactivity",
		},
	)

	// NotificationFailuresTotal 通知发送失败数（尽力而为，不重试）
	NotificationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideku_notification_failures_total",
			Help: "Total number of failed notification deliveries",
		},
		[]string{"channel"},
	)
)
