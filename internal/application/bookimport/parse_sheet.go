// Package bookimport 表格导入用例:解析 → 预览 → 确认导入
package bookimport

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookstore-admin/internal/domain/bookimport"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/spreadsheet"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
	"github.com/xiebiao/bookstore-admin/pkg/tracing"
)

// SheetReader 读取第一个工作表的全部行
type SheetReader func(r io.Reader) ([][]string, error)

// ParseSheetUseCase 解析上传的表格
// 只返回预览数据,不落库
type ParseSheetUseCase struct {
	read        SheetReader
	maxFileSize int64
}

// NewParseSheetUseCase 创建解析用例,maxFileSize<=0表示不限制
func NewParseSheetUseCase(maxFileSize int64) *ParseSheetUseCase {
	return &ParseSheetUseCase{read: spreadsheet.ReadFirstSheet, maxFileSize: maxFileSize}
}

// Execute 解析表格
// 文件无法读取时返回只含一条文件级错误的结果,计数均为0
func (uc *ParseSheetUseCase) Execute(ctx context.Context, r io.Reader) *bookimport.Result {
	_, span := tracing.StartSpan(ctx, "import", "ParseSheet")
	defer span.End()

	if uc.maxFileSize > 0 {
		r = &limitedReader{r: r, remaining: uc.maxFileSize}
	}

	rows, err := uc.read(r)
	if err != nil {
		logger.WithError(err).Warn("表格文件读取失败")
		span.RecordError(err)
		return bookimport.FileError(err)
	}

	result := bookimport.ParseRows(rows)

	metrics.AddImportRows("parse", "valid", result.Success)
	metrics.AddImportRows("parse", "failed", result.Failed)
	span.SetAttributes(
		attribute.Int("import.rows", len(rows)),
		attribute.Int("import.valid", result.Success),
		attribute.Int("import.failed", result.Failed),
	)
	logger.WithFields(map[string]interface{}{
		"rows":    len(rows),
		"success": result.Success,
		"failed":  result.Failed,
	}).Info("表格解析完成")

	return result
}

// limitedReader 超过上限时返回错误,而不是像io.LimitReader那样静默截断
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// 恰好读完上限时再探测一个字节
		var probe [1]byte
		n, err := l.r.Read(probe[:])
		if n > 0 {
			return 0, fmt.Errorf("arquivo excede o tamanho máximo permitido")
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
