package lookup

import (
	"errors"

	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// 对外错误:由Resolver返回给调用方
var (
	// ErrInvalidISBN ISBN长度不合法,在任何I/O之前返回
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidISBN, "ISBN格式错误,必须为10位或13位")

	// ErrBookNotFound 本地和所有外部数据源都没有找到
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeNotFound, "未找到该ISBN对应的图书")

	// ErrLookupNotConfigured 没有任何可用的外部数据源(均缺少配置)
	ErrLookupNotConfigured = apperrors.New(apperrors.ErrCodeNotConfigured, "ISBN查询服务未配置,请在设置中配置抓取服务Token")
)

// 数据源错误:Source实现返回,由Resolver归类
var (
	// ErrNotFound 数据源正常响应但没有结果
	ErrNotFound = errors.New("lookup: no result")

	// ErrSourceNotConfigured 数据源缺少凭证,跳过
	ErrSourceNotConfigured = errors.New("lookup: source not configured")

	// ErrSourceUnavailable 数据源不可用(网络、接口错误或熔断打开)
	ErrSourceUnavailable = errors.New("lookup: source unavailable")
)
