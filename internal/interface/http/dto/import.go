package dto

import "github.com/xiebiao/bookstore-admin/internal/domain/bookimport"

// CommitImportRequest 确认导入(解析结果中的books原样提交)
type CommitImportRequest struct {
	Books []bookimport.ImportedBookRecord `json:"books" binding:"required,min=1"`
}

// ScraperTokenRequest 保存抓取服务Token
type ScraperTokenRequest struct {
	Token string `json:"token" binding:"required,max=200"`
}
