package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 洞察生成计数
	InsightGenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_generation_count",
			Help: "Total number of insight generations",
		},
		[]string{"provider", "outcome"}, // outcome: generated, cache_hit, failed
	)

	// LLM provider 调用延迟（毫秒）
	ProviderCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_call_latency_ms",
			Help:    "LLM provider call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"endpoint", "status"},
	)

	// 日历服务调用延迟（毫秒）
	CalendarCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calendar_call_latency_ms",
			Help:    "Calendar bridge call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(50, 2, 10),
		},
		[]string{"endpoint", "status"},
	)

	// 回退路径计数
	FallbackCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_count",
			Help: "Total number of deterministic fallback generations",
		},
		[]string{"operation"}, // operation: insight, draft
	)

	// 限流拒绝计数
	SyncRateLimitedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_rate_limited_count",
			Help: "Manual sync triggers rejected by the cooldown gate",
		},
		[]string{"mailbox"},
	)

	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of slow database queries",
		},
	)
)

// RecordProviderCallLatency 记录 LLM provider 调用延迟
func RecordProviderCallLatency(endpoint, status string, duration time.Duration) {
	ProviderCallLatency.WithLabelValues(endpoint, status).Observe(float64(duration.Milliseconds()))
}

// RecordCalendarCallLatency 记录日历服务调用延迟
func RecordCalendarCallLatency(endpoint, status string, duration time.Duration) {
	CalendarCallLatency.WithLabelValues(endpoint, status).Observe(float64(duration.Milliseconds()))
}

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementInsightGeneration 增加洞察生成计数
func IncrementInsightGeneration(provider, outcome string) {
	InsightGenerationCount.WithLabelValues(provider, outcome).Inc()
}

// IncrementFallback 增加回退计数
func IncrementFallback(operation string) {
	FallbackCount.WithLabelValues(operation).Inc()
}

// IncrementSyncRateLimited 增加限流拒绝计数
func IncrementSyncRateLimited(mailbox string) {
	SyncRateLimitedCount.WithLabelValues(mailbox).Inc()
}

// IncrementSlowQuery 增加慢查询计数
func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}
