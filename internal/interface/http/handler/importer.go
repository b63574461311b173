package handler

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	appimport "github.com/xiebiao/bookstore-admin/internal/application/bookimport"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/spreadsheet"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

// ImportHandler 表格导入HTTP处理器
// 解析(预览) → 前端确认 → 同步或异步导入
type ImportHandler struct {
	parseUseCase  *appimport.ParseSheetUseCase
	commitUseCase *appimport.CommitImportUseCase
	startUseCase  *appimport.StartImportJobUseCase
	jobUseCase    *appimport.GetImportJobUseCase
}

// NewImportHandler 创建导入处理器
func NewImportHandler(
	parseUseCase *appimport.ParseSheetUseCase,
	commitUseCase *appimport.CommitImportUseCase,
	startUseCase *appimport.StartImportJobUseCase,
	jobUseCase *appimport.GetImportJobUseCase,
) *ImportHandler {
	return &ImportHandler{
		parseUseCase:  parseUseCase,
		commitUseCase: commitUseCase,
		startUseCase:  startUseCase,
		jobUseCase:    jobUseCase,
	}
}

// Template 下载导入模板
// @Summary      下载导入模板
// @Tags         导入
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200 {file} file
// @Router       /api/v1/imports/template [get]
func (h *ImportHandler) Template(c *gin.Context) {
	var buf bytes.Buffer
	if err := spreadsheet.WriteImportTemplate(&buf); err != nil {
		response.Error(c, apperrors.Wrap(err, "生成模板失败"))
		return
	}
	response.File(c, spreadsheet.TemplateFileName, xlsxContentType, buf.Bytes())
}

// Parse 解析上传的表格
// @Summary      解析表格
// @Description  只返回预览数据，不落库；行级错误在errors中
// @Tags         导入
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "xlsx文件"
// @Success      200 {object} response.Response{data=object}
// @Router       /api/v1/imports/parse [post]
func (h *ImportHandler) Parse(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidFile, "请上传文件")
		return
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".xlsx" {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidFile, "只支持.xlsx文件")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error(c, apperrors.WithCode(apperrors.ErrCodeInvalidFile, err, "读取上传文件失败"))
		return
	}
	defer f.Close()

	response.Success(c, h.parseUseCase.Execute(c.Request.Context(), f))
}

// Commit 同步导入
// @Summary      确认导入
// @Description  逐条写入，单条失败不影响其余记录
// @Tags         导入
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CommitImportRequest true "解析结果中的books"
// @Success      200 {object} response.Response{data=appimport.CommitResult}
// @Router       /api/v1/imports/commit [post]
func (h *ImportHandler) Commit(c *gin.Context) {
	var req dto.CommitImportRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.commitUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), req.Books, nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// StartJob 异步导入
// @Summary      异步导入
// @Description  立即返回任务，通过GET /imports/jobs/{id}查询进度
// @Tags         导入
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CommitImportRequest true "解析结果中的books"
// @Success      200 {object} response.Response{data=object}
// @Router       /api/v1/imports/jobs [post]
func (h *ImportHandler) StartJob(c *gin.Context) {
	var req dto.CommitImportRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.startUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), req.Books)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

// GetJob 查询导入进度
// @Summary      导入进度
// @Tags         导入
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "任务ID"
// @Success      200 {object} response.Response{data=object}
// @Router       /api/v1/imports/jobs/{id} [get]
func (h *ImportHandler) GetJob(c *gin.Context) {
	job, err := h.jobUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}
