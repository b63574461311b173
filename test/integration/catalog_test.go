//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

func TestBookCatalog(t *testing.T) {
	_, login := RegisterTestUser(t, "catalog_user")
	token := login.AccessToken

	var category struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	Decode(t, PostJSON(t, BaseURL+"/categories", map[string]string{"name": "Categoria " + GenerateTestISBN()}, token), &category)

	isbn := GenerateTestISBN()
	var created BookData
	Decode(t, PostJSON(t, BaseURL+"/books", map[string]interface{}{
		"title":       "Memórias Póstumas de Brás Cubas",
		"author":      "Machado de Assis",
		"isbn":        isbn[:3] + "-" + isbn[3:],
		"category_id": category.ID,
		"price":       29.9,
		"stock":       4,
	}, token), &created)

	t.Run("价格以分存储", func(t *testing.T) {
		assert.Equal(t, int64(2990), created.Price)
		assert.Equal(t, "29.90", created.PriceDisplay)
		assert.Equal(t, isbn, created.ISBN, "ISBN去掉分隔符后保存")
		assert.Equal(t, category.Name, created.CategoryName)
	})

	t.Run("ISBN查询命中本地目录", func(t *testing.T) {
		var data struct {
			Source         string `json:"source"`
			ExistingBookID *uint  `json:"existing_book_id"`
			Title          string `json:"title"`
		}
		Decode(t, GetJSON(t, BaseURL+"/books/lookup/"+isbn, token), &data)
		assert.Equal(t, "local", data.Source)
		require.NotNil(t, data.ExistingBookID)
		assert.Equal(t, created.ID, *data.ExistingBookID)
	})

	t.Run("ISBN格式错误", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books/lookup/12345", token)
		assert.Equal(t, apperrors.ErrCodeInvalidISBN, resp.Code)
	})

	t.Run("按关键字搜索", func(t *testing.T) {
		var page struct {
			Items []BookData `json:"items"`
			Total int64      `json:"total"`
		}
		Decode(t, GetJSON(t, BaseURL+"/books?keyword="+isbn, token), &page)
		require.Len(t, page.Items, 1)
		assert.Equal(t, created.ID, page.Items[0].ID)
	})

	t.Run("删除分类后图书保留", func(t *testing.T) {
		resp := Do(t, http.MethodDelete, BaseURL+"/categories/"+itoa(category.ID), nil, "", token)
		require.Equal(t, 0, resp.Code, resp.Message)

		var b BookData
		Decode(t, GetJSON(t, BaseURL+"/books/"+itoa(created.ID), token), &b)
		assert.Empty(t, b.CategoryName)
	})

	t.Run("删除图书", func(t *testing.T) {
		resp := Do(t, http.MethodDelete, BaseURL+"/books/"+itoa(created.ID), strings.NewReader(""), "", token)
		require.Equal(t, 0, resp.Code, resp.Message)
		assert.Equal(t, apperrors.ErrCodeBookNotFound, GetJSON(t, BaseURL+"/books/"+itoa(created.ID), token).Code)
	})
}
