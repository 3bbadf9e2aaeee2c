package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 业务指标
	trendVotesTotal   *prometheus.CounterVec
	postViewsFlushed  prometheus.Counter
	feedQueryDuration *prometheus.HistogramVec
}

var (
	globalCollector *MetricsCollector
	collectorOnce   sync.Once
)

// GetGlobalCollector 获取全局指标收集器（懒初始化，promauto 重复注册会 panic）
func GetGlobalCollector() *MetricsCollector {
	collectorOnce.Do(func() {
		globalCollector = newMetricsCollector()
	})
	return globalCollector
}

func newMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
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

		trendVotesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trend_votes_total",
				Help: "Total number of trend votes cast",
			},
			[]string{"direction"},
		),

		postViewsFlushed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "post_views_flushed_total",
				Help: "View increments flushed to the database",
			},
		),

		feedQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feed_query_duration_seconds",
				Help:    "Feed query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"feed"},
		),
	}
}

// RecordHTTPRequest 记录一次 HTTP 请求
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordTrendVote 记录一次投票
func (m *MetricsCollector) RecordTrendVote(isUptrend bool) {
	direction := "down"
	if isUptrend {
		direction = "up"
	}
	m.trendVotesTotal.WithLabelValues(direction).Inc()
}

// RecordViewsFlushed 记录批量落库的浏览数
func (m *MetricsCollector) RecordViewsFlushed(n int) {
	m.postViewsFlushed.Add(float64(n))
}

// RecordFeedQuery 记录一次 feed 查询耗时
func (m *MetricsCollector) RecordFeedQuery(feed string, duration time.Duration) {
	m.feedQueryDuration.WithLabelValues(feed).Observe(duration.Seconds())
}
