package bookapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
)

// volumesResponse volumes?q=isbn:...
type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title         string   `json:"title"`
			Subtitle      string   `json:"subtitle"`
			Authors       []string `json:"authors"`
			Publisher     string   `json:"publisher"`
			PublishedDate string   `json:"publishedDate"`
			Description   string   `json:"description"`
			ImageLinks    struct {
				Thumbnail      string `json:"thumbnail"`
				SmallThumbnail string `json:"smallThumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
		SaleInfo struct {
			ListPrice *struct {
				Amount       float64 `json:"amount"`
				CurrencyCode string  `json:"currencyCode"`
			} `json:"listPrice"`
		} `json:"saleInfo"`
	} `json:"items"`
}

// GoogleBooks Google Books公共API数据源
type GoogleBooks struct {
	*requester
	baseURL string
	apiKey  string
}

// NewGoogleBooks 创建数据源,apiKey可为空(匿名额度)
func NewGoogleBooks(baseURL, apiKey string, timeout time.Duration) *GoogleBooks {
	return &GoogleBooks{
		requester: newRequester(timeout, 5, 2),
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
	}
}

func (g *GoogleBooks) Name() string { return lookup.SourceGoogleBooks }

// Lookup 按ISBN检索,取第一条结果
func (g *GoogleBooks) Lookup(ctx context.Context, isbn string) (*lookup.ExternalBookData, error) {
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	u := fmt.Sprintf("%s/volumes?%s", g.baseURL, q.Encode())

	var res volumesResponse
	err := g.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		// key走请求头,避免出现在错误信息里的URL中
		if g.apiKey != "" {
			req.Header.Set("X-Goog-Api-Key", g.apiKey)
		}
		return req, nil
	}, &res)
	if err != nil {
		return nil, err
	}

	if res.TotalItems == 0 || len(res.Items) == 0 {
		return nil, lookup.ErrNotFound
	}

	v := res.Items[0].VolumeInfo
	data := &lookup.ExternalBookData{
		Title:       strings.TrimSpace(v.Title),
		Author:      strings.Join(v.Authors, ", "),
		ISBN:        isbn,
		Description: v.Description,
		Publisher:   v.Publisher,
		CoverImage:  v.ImageLinks.Thumbnail,
		Source:      lookup.SourceGoogleBooks,
	}
	if data.Title == "" {
		data.Title = lookup.UnknownTitle
	}
	if v.Subtitle != "" {
		data.Title += ": " + v.Subtitle
	}
	if data.Author == "" {
		data.Author = lookup.UnknownAuthor
	}
	if data.CoverImage == "" {
		data.CoverImage = v.ImageLinks.SmallThumbnail
	}

	// publishedDate: "2008" / "2008-01" / "2008-01-15",取第一个"-"之前的部分
	if year, _, _ := strings.Cut(v.PublishedDate, "-"); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			data.PublicationYear = &y
		}
	}

	if lp := res.Items[0].SaleInfo.ListPrice; lp != nil && lp.Amount > 0 {
		p := decimal.NewFromFloat(lp.Amount)
		data.Price = &p
	}
	return data, nil
}
