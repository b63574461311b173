package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 重复调用不应panic（重复注册）

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, LookupRequestsTotal)
	assert.NotNil(t, ImportRowsTotal)
	t.Log("✅ 所有指标初始化成功")
}

func TestMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/v1/books/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", Handler())

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/books/:id", "200"))

	for _, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	t.Run("按路由模板聚合", func(t *testing.T) {
		after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/books/:id", "200"))
		assert.Equal(t, 3.0, after-before)
	})

	t.Run("未匹配路由", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	})

	t.Run("暴露/metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
	})

	assert.Equal(t, 0.0, testutil.ToFloat64(HTTPRequestsInProgress), "请求结束后处理中计数应归零")
}

func TestObserveLookup(t *testing.T) {
	InitMetrics()
	before := testutil.ToFloat64(LookupRequestsTotal.WithLabelValues("scraper", "hit"))

	ObserveLookup("scraper", "hit", 42*time.Second)
	ObserveLookup("scraper", "hit", 12*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(LookupRequestsTotal.WithLabelValues("scraper", "hit"))-before)
	assert.GreaterOrEqual(t, histogramCount(t, LookupDuration.WithLabelValues("scraper")), uint64(2))
}

func TestAddImportRows(t *testing.T) {
	InitMetrics()
	counter := ImportRowsTotal.WithLabelValues("parse", "valid")
	before := testutil.ToFloat64(counter)

	AddImportRows("parse", "valid", 5)
	AddImportRows("parse", "valid", 0)
	AddImportRows("parse", "valid", -1)

	assert.Equal(t, 5.0, testutil.ToFloat64(counter)-before)
}

func TestObserveSaga(t *testing.T) {
	InitMetrics()
	compBefore := testutil.ToFloat64(SagaCompensationsTotal)
	failBefore := testutil.ToFloat64(SagaExecutionsTotal.WithLabelValues("failure"))

	ObserveSaga(false, 2)
	ObserveSaga(true, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(SagaCompensationsTotal)-compBefore)
	assert.Equal(t, 1.0, testutil.ToFloat64(SagaExecutionsTotal.WithLabelValues("failure"))-failBefore)
}

func TestSetBreakerState(t *testing.T) {
	SetBreakerState("google_books", 1)
	SetBreakerState("scraper", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("google_books")))
	assert.Equal(t, 0.0, testutil.ToFloat64(CircuitBreakerState.WithLabelValues("scraper")))
}

// histogramCount 读取Histogram观测次数
func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, o.(prometheus.Histogram).Write(&m))
	return m.Histogram.GetSampleCount()
}
