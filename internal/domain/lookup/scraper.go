package lookup

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// 抓取结果缺少字段时的默认值
const (
	UnknownAuthor = "Unknown"
	UnknownTitle  = "Unknown Title"
)

var (
	publisherPattern = regexp.MustCompile(`Editora:\s*([^;(]+)`)
	authorPattern    = regexp.MustCompile(`Autores?:\s*(.+)`)
	yearPattern      = regexp.MustCompile(`\b(\d{4})\b`)
)

// CredentialProvider 凭证来源,没有凭证时返回空串
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// CredentialChain 按顺序取第一个非空凭证
// 单个来源出错只记录日志,继续尝试下一个
type CredentialChain []CredentialProvider

func (c CredentialChain) Token(ctx context.Context) (string, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		token, err := p.Token(ctx)
		if err != nil {
			logger.WithError(err).Warn("读取抓取服务凭证失败")
			continue
		}
		if token = strings.TrimSpace(token); token != "" {
			return token, nil
		}
	}
	return "", nil
}

// StaticCredential 固定凭证(配置文件/环境变量)
type StaticCredential string

func (s StaticCredential) Token(context.Context) (string, error) { return string(s), nil }

// ScraperSource 基于抓取任务的数据源
// 13位ISBN没有结果时换算为ISBN-10重试一次
type ScraperSource struct {
	runner *JobRunner
	creds  CredentialProvider
}

// NewScraperSource 创建抓取数据源
func NewScraperSource(runner *JobRunner, creds CredentialProvider) *ScraperSource {
	return &ScraperSource{runner: runner, creds: creds}
}

func (s *ScraperSource) Name() string { return SourceScraper }

// Lookup 查询ISBN
func (s *ScraperSource) Lookup(ctx context.Context, isbn string) (*ExternalBookData, error) {
	token, err := s.creds.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrSourceNotConfigured
	}

	data, err := s.search(ctx, token, isbn, isbn)
	if err == nil || len(isbn) != 13 || ctx.Err() != nil {
		return data, err
	}

	isbn10, ok := ISBN13To10(isbn)
	if !ok {
		return nil, err
	}
	logger.WithFields(map[string]interface{}{"isbn13": isbn, "isbn10": isbn10}).Info("ISBN-13无结果,改用ISBN-10重试")
	return s.search(ctx, token, isbn10, isbn)
}

// search 以query执行一次抓取任务,结果中的ISBN使用调用方传入的isbn
func (s *ScraperSource) search(ctx context.Context, token, query, isbn string) (*ExternalBookData, error) {
	out, err := s.runner.Run(ctx, token, query)
	if err != nil {
		return nil, err
	}
	metrics.ObserveScraperPolls(out.Attempts)

	switch out.State {
	case JobSucceeded:
	case JobFailed:
		if out.Err != nil {
			return nil, fmt.Errorf("查询抓取任务状态失败: %w", out.Err)
		}
		return nil, errors.New("抓取任务失败")
	default:
		return nil, fmt.Errorf("抓取任务未成功结束: %s(轮询%d次)", out.State, out.Attempts)
	}

	if len(out.Items) == 0 {
		return nil, ErrNotFound
	}
	return ExtractItem(out.Items[0], isbn), nil
}

// ExtractItem 从抓取结果的第一条商品提取图书信息
// 详情要点中:"Editora:"到分号或左括号为出版社,"Autor:"/"Autores:"之后为作者,独立的4位数字为出版年份
// 同类信息出现多次时以最后一次为准
func ExtractItem(item ScrapedItem, isbn string) *ExternalBookData {
	data := &ExternalBookData{
		Title:       strings.TrimSpace(item.Title),
		Author:      UnknownAuthor,
		ISBN:        isbn,
		Description: strings.TrimSpace(item.Description),
		CoverImage:  item.ImageURL,
		Source:      SourceScraper,
	}
	if data.Title == "" {
		data.Title = UnknownTitle
	}

	for _, bp := range item.BulletPoints {
		if m := publisherPattern.FindStringSubmatch(bp); m != nil {
			if p := strings.TrimSpace(m[1]); p != "" {
				data.Publisher = p
			}
		}
		if m := authorPattern.FindStringSubmatch(bp); m != nil {
			if a := strings.TrimSpace(m[1]); a != "" {
				data.Author = a
			}
		}
		if m := yearPattern.FindStringSubmatch(bp); m != nil {
			if y, err := strconv.Atoi(m[1]); err == nil && y >= 1000 && y <= 2100 {
				data.PublicationYear = &y
			}
		}
	}

	if item.Price != nil {
		p := decimal.NewFromFloat(*item.Price)
		data.Price = &p
	}
	return data
}
