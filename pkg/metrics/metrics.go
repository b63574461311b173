// Package metrics 提供基于Prometheus的指标收集
//
// 指标分三组：
//
//	HTTP：请求数、耗时、处理中请求数（由Middleware自动记录）
//	查询：按数据源统计ISBN查询结果、抓取任务轮询次数、熔断器状态
//	业务：导入行数、销售单数、Saga执行与补偿、消息发布
//
// 命名规范：
//   - Counter以_total结尾
//   - Histogram以单位结尾（_seconds）
//   - 标签只使用有限取值（source、result、status），不要用isbn或user_id
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// ISBN查询指标

	// LookupRequestsTotal ISBN查询次数
	// 标签：source（local/google_books/scraper）、result（hit/miss/error/skipped）
	LookupRequestsTotal *prometheus.CounterVec

	// LookupDuration 单个数据源查询耗时
	// 抓取任务可能持续90秒，桶上限放到120秒
	LookupDuration *prometheus.HistogramVec

	// ScraperPollAttempts 抓取任务终止前的轮询次数
	ScraperPollAttempts prometheus.Histogram

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// 导入指标

	// ImportRowsTotal 表格导入行数
	// 标签：stage（parse/commit）、result（valid/failed/skipped/imported）
	ImportRowsTotal *prometheus.CounterVec

	// 销售指标

	// SalesCreatedTotal 销售单创建结果
	// 标签：result（success/failure）
	SalesCreatedTotal *prometheus.CounterVec

	// SaleCreationDuration 销售单创建耗时
	SaleCreationDuration prometheus.Histogram

	// Saga指标

	// SagaExecutionsTotal Saga执行总数
	// 标签：result（success/failure）
	SagaExecutionsTotal *prometheus.CounterVec

	// SagaCompensationsTotal Saga补偿执行总数
	SagaCompensationsTotal prometheus.Counter

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	// 标签：routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	// 标签：queue、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 使用promauto注册到默认Registry，重复调用只生效一次
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 60, 120},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	LookupRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "isbn_lookup_requests_total",
			Help: "ISBN查询次数（按数据源与结果）",
		},
		[]string{"source", "result"},
	)

	LookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "isbn_lookup_duration_seconds",
			Help:    "单个数据源查询耗时（秒）",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		},
		[]string{"source"},
	)

	ScraperPollAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_poll_attempts",
			Help:    "抓取任务终止前的轮询次数",
			Buckets: []float64{1, 2, 5, 10, 20, 30},
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	ImportRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_import_rows_total",
			Help: "表格导入行数（按阶段与结果）",
		},
		[]string{"stage", "result"},
	)

	SalesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_created_total",
			Help: "销售单创建结果",
		},
		[]string{"result"},
	)

	SaleCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sale_creation_duration_seconds",
			Help:    "销售单创建耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	SagaExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_executions_total",
			Help: "Saga执行总数",
		},
		[]string{"result"},
	)

	SagaCompensationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "Saga补偿执行总数",
		},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
}

// Handler 返回/metrics端点的gin处理函数
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware HTTP指标中间件
// path使用路由模板（c.FullPath），未匹配路由记为"unmatched"，防止标签基数爆炸
func Middleware() gin.HandlerFunc {
	InitMetrics()
	return func(c *gin.Context) {
		start := time.Now()
		HTTPRequestsInProgress.Inc()
		defer HTTPRequestsInProgress.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveLookup 记录一次数据源查询
func ObserveLookup(source, result string, elapsed time.Duration) {
	InitMetrics()
	LookupRequestsTotal.WithLabelValues(source, result).Inc()
	LookupDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveScraperPolls 记录抓取任务的轮询次数
func ObserveScraperPolls(attempts int) {
	InitMetrics()
	ScraperPollAttempts.Observe(float64(attempts))
}

// AddImportRows 累加导入行数，n<=0时忽略
func AddImportRows(stage, result string, n int) {
	if n <= 0 {
		return
	}
	InitMetrics()
	ImportRowsTotal.WithLabelValues(stage, result).Add(float64(n))
}

// ObserveSale 记录一次销售单创建
func ObserveSale(success bool, elapsed time.Duration) {
	InitMetrics()
	SalesCreatedTotal.WithLabelValues(resultLabel(success)).Inc()
	SaleCreationDuration.Observe(elapsed.Seconds())
}

// ObserveSaga 记录一次Saga执行
func ObserveSaga(success bool, compensations int) {
	InitMetrics()
	SagaExecutionsTotal.WithLabelValues(resultLabel(success)).Inc()
	if compensations > 0 {
		SagaCompensationsTotal.Add(float64(compensations))
	}
}

// ObservePublish 记录一次消息发布
func ObservePublish(routingKey string, success bool) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(routingKey, resultLabel(success)).Inc()
}

// ObserveConsume 记录一次消息消费
func ObserveConsume(queue string, success bool) {
	InitMetrics()
	MessagesConsumedTotal.WithLabelValues(queue, resultLabel(success)).Inc()
}

// SetBreakerState 设置熔断器状态
func SetBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
