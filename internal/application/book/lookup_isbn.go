package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/tracing"
)

// Resolver ISBN解析
type Resolver interface {
	Resolve(ctx context.Context, raw string) (*lookup.ExternalBookData, error)
}

// LookupISBNUseCase ISBN查询用例
// 只返回数据供前端回填表单,不落库
type LookupISBNUseCase struct {
	resolver Resolver
}

// NewLookupISBNUseCase 创建用例
func NewLookupISBNUseCase(resolver Resolver) *LookupISBNUseCase {
	return &LookupISBNUseCase{resolver: resolver}
}

// Execute 查询ISBN
func (uc *LookupISBNUseCase) Execute(ctx context.Context, raw string) (data *lookup.ExternalBookData, err error) {
	ctx, span := tracing.StartSpan(ctx, "lookup", "ResolveISBN")
	defer func() { tracing.EndSpan(span, err) }()
	span.SetAttributes(attribute.String("isbn.raw", raw))

	data, err = uc.resolver.Resolve(ctx, raw)
	if err != nil {
		logger.WithField("isbn", raw).WithError(err).Info("ISBN查询无结果")
		return nil, err
	}

	span.SetAttributes(attribute.String("lookup.source", data.Source))
	logger.WithFields(map[string]interface{}{
		"isbn":   data.ISBN,
		"source": data.Source,
	}).Info("ISBN查询成功")
	return data, nil
}
