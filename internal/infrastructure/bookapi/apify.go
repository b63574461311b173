package bookapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
)

// ApifyConfig 抓取任务服务配置
type ApifyConfig struct {
	BaseURL        string
	ActorID        string
	SearchURL      string // 含一个%s,替换为查询词
	MaxItems       int
	RequestTimeout time.Duration
}

// ApifyClient 实现lookup.JobClient
type ApifyClient struct {
	*requester
	cfg ApifyConfig
}

// NewApifyClient 创建客户端
// 单次HTTP请求不重试,轮询节奏由JobRunner控制
func NewApifyClient(cfg ApifyConfig) *ApifyClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 5
	}
	return &ApifyClient{
		requester: newRequester(cfg.RequestTimeout, 10, 0),
		cfg:       cfg,
	}
}

type runInput struct {
	CategoryURLs       []runURL           `json:"categoryUrls"`
	MaxItems           int                `json:"maxItems"`
	ProxyConfiguration proxyConfiguration `json:"proxyConfiguration"`
}

type runURL struct {
	URL string `json:"url"`
}

type proxyConfiguration struct {
	UseApifyProxy bool `json:"useApifyProxy"`
}

type runResponse struct {
	Data struct {
		ID               string `json:"id"`
		DefaultDatasetID string `json:"defaultDatasetId"`
		Status           string `json:"status"`
	} `json:"data"`
}

type datasetItem struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	DetailBulletPoints []string `json:"detailBulletPoints"`
	Images             []struct {
		URL string `json:"url"`
	} `json:"images"`
	PriceDetail *struct {
		PricePerUnit *float64 `json:"pricePerUnit"`
	} `json:"priceDetail"`
}

// Submit 提交抓取任务
func (c *ApifyClient) Submit(ctx context.Context, token, query string) (*lookup.JobRun, error) {
	body, err := json.Marshal(runInput{
		CategoryURLs:       []runURL{{URL: fmt.Sprintf(c.cfg.SearchURL, url.QueryEscape(query))}},
		MaxItems:           c.cfg.MaxItems,
		ProxyConfiguration: proxyConfiguration{UseApifyProxy: true},
	})
	if err != nil {
		return nil, err
	}

	u := c.endpoint("acts", c.cfg.ActorID, "runs")
	var res runResponse
	err = c.do(ctx, func() (*http.Request, error) {
		req, err := newAuthRequest(ctx, http.MethodPost, u, token, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &res)
	if err != nil {
		return nil, err
	}

	return &lookup.JobRun{
		ID:        res.Data.ID,
		DatasetID: res.Data.DefaultDatasetID,
		Status:    lookup.RunStatus(res.Data.Status),
	}, nil
}

// Status 查询任务状态
func (c *ApifyClient) Status(ctx context.Context, token, runID string) (lookup.RunStatus, error) {
	u := c.endpoint("acts", c.cfg.ActorID, "runs", runID)
	var res runResponse
	if err := c.get(ctx, token, u, &res); err != nil {
		return "", err
	}
	return lookup.RunStatus(res.Data.Status), nil
}

// Items 读取任务结果
func (c *ApifyClient) Items(ctx context.Context, token, datasetID string) ([]lookup.ScrapedItem, error) {
	u := c.endpoint("datasets", datasetID, "items")
	var res []datasetItem
	if err := c.get(ctx, token, u, &res); err != nil {
		return nil, err
	}

	items := make([]lookup.ScrapedItem, 0, len(res))
	for _, r := range res {
		item := lookup.ScrapedItem{
			Title:        r.Title,
			Description:  r.Description,
			BulletPoints: r.DetailBulletPoints,
		}
		if len(r.Images) > 0 {
			item.ImageURL = r.Images[0].URL
		}
		if r.PriceDetail != nil {
			item.Price = r.PriceDetail.PricePerUnit
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *ApifyClient) get(ctx context.Context, token, u string, target interface{}) error {
	return c.do(ctx, func() (*http.Request, error) {
		return newAuthRequest(ctx, http.MethodGet, u, token, nil)
	}, target)
}

// newAuthRequest token只放在Authorization头中,URL会出现在传输错误里
func newAuthRequest(ctx context.Context, method, u, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// endpoint 拼接路径
func (c *ApifyClient) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.cfg.BaseURL + "/" + strings.Join(escaped, "/")
}
