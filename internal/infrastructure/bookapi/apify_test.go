package bookapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
)

func newApifyServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/acts/junglee~scraper/runs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.RawQuery)

		var in runInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Len(t, in.CategoryURLs, 1)
		assert.Equal(t, "https://www.amazon.com.br/s?k=8535902775&i=stripbooks", in.CategoryURLs[0].URL)
		assert.Equal(t, 5, in.MaxItems)
		assert.True(t, in.ProxyConfiguration.UseApifyProxy)

		_, _ = w.Write([]byte(`{"data":{"id":"run-1","defaultDatasetId":"ds-1","status":"READY"}}`))
	})
	mux.HandleFunc("/acts/junglee~scraper/runs/run-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"id":"run-1","status":"SUCCEEDED"}}`))
	})
	mux.HandleFunc("/datasets/ds-1/items", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{
			"title": "Dom Casmurro",
			"description": "Romance",
			"images": [{"url": "https://img/1.jpg"}],
			"detailBulletPoints": ["Editora: Rocco (2010)", "Autor: Machado de Assis"],
			"priceDetail": {"pricePerUnit": 29.9}
		}]`))
	})
	return httptest.NewServer(mux)
}

func TestApifyClient_WithJobRunner(t *testing.T) {
	srv := newApifyServer(t)
	defer srv.Close()

	client := NewApifyClient(ApifyConfig{
		BaseURL:   srv.URL,
		ActorID:   "junglee~scraper",
		SearchURL: "https://www.amazon.com.br/s?k=%s&i=stripbooks",
	})
	noWait := lookup.SleeperFunc(func(context.Context, time.Duration) error { return nil })
	src := lookup.NewScraperSource(lookup.NewJobRunner(client, noWait, time.Second, 3), lookup.StaticCredential("tok"))

	got, err := src.Lookup(context.Background(), "8535902775")
	require.NoError(t, err)

	assert.Equal(t, "Dom Casmurro", got.Title)
	assert.Equal(t, "Machado de Assis", got.Author)
	assert.Equal(t, "Rocco", got.Publisher)
	require.NotNil(t, got.PublicationYear)
	assert.Equal(t, 2010, *got.PublicationYear)
	assert.Equal(t, int64(2990), got.PriceCents())
	assert.Equal(t, "https://img/1.jpg", got.CoverImage)
	t.Log("✅ 提交、轮询、取结果完整走通")
}

func TestApifyClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"token-not-valid"}}`))
	}))
	defer srv.Close()

	client := NewApifyClient(ApifyConfig{BaseURL: srv.URL, ActorID: "a", SearchURL: "%s"})
	_, err := client.Submit(context.Background(), "bad", "q")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, se.Body, "token-not-valid")
}

func TestApifyClient_TransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	client := NewApifyClient(ApifyConfig{BaseURL: addr, ActorID: "a", SearchURL: "%s", RequestTimeout: time.Second})

	_, err := client.Submit(context.Background(), "SECRET-TOKEN-123", "q")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-TOKEN-123")
	assert.NotContains(t, err.Error(), "retries")

	_, err = client.Status(context.Background(), "SECRET-TOKEN-123", "run-1")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET-TOKEN-123")
	t.Log("✅ 连接失败时错误信息不包含token")
}
