package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useRecorder 安装内存Span记录器，替代OTLP导出
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return recorder
}

func TestInitTracer(t *testing.T) {
	// 连接是惰性的，没有Collector也能初始化成功
	shutdown, err := InitTracer("bookstore-admin-test", "localhost:4317")
	require.NoError(t, err)
	assert.NotNil(t, otel.Tracer("test"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestStartSpan(t *testing.T) {
	useRecorder(t)

	t.Run("子Span继承TraceID", func(t *testing.T) {
		ctx, root := StartSpan(context.Background(), "lookup", "Resolve")
		defer root.End()

		_, child := StartSpan(ctx, "lookup", "scraper.poll")
		defer child.End()

		assert.Equal(t, root.SpanContext().TraceID(), child.SpanContext().TraceID())
		assert.NotEqual(t, root.SpanContext().SpanID(), child.SpanContext().SpanID())
	})

	t.Run("提取TraceID", func(t *testing.T) {
		ctx, span := StartSpan(context.Background(), "import", "CommitImport")
		defer span.End()

		assert.Len(t, ExtractTraceID(ctx), 32)
		assert.Len(t, ExtractSpanID(ctx), 16)
		assert.Empty(t, ExtractTraceID(context.Background()), "无Span时应返回空字符串")
	})
}

func TestEndSpan(t *testing.T) {
	recorder := useRecorder(t)

	_, ok := StartSpan(context.Background(), "sale", "CreateSale")
	EndSpan(ok, nil)

	_, failed := StartSpan(context.Background(), "sale", "CreateSale")
	EndSpan(failed, errors.New("库存不足"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "库存不足", spans[1].Status().Description)
}
