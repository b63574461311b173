package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-admin/internal/application/dashboard"
	appreport "github.com/xiebiao/bookstore-admin/internal/application/report"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

// xlsxContentType Excel文件类型
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 首页与报表HTTP处理器
type ReportHandler struct {
	dashboardUseCase *dashboard.UseCase
	reportUseCase    *appreport.SalesReportUseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(dashboardUseCase *dashboard.UseCase, reportUseCase *appreport.SalesReportUseCase) *ReportHandler {
	return &ReportHandler{dashboardUseCase: dashboardUseCase, reportUseCase: reportUseCase}
}

// Dashboard 首页统计
// @Summary      首页统计
// @Description  图书数、客户数、销售数、营收与最近5笔销售
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dashboard.Response}
// @Router       /api/v1/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	result, err := h.dashboardUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SalesReport 周期销售报表
// @Summary      销售报表
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        period query string false "week|month|year，默认month"
// @Success      200 {object} response.Response{data=object}
// @Router       /api/v1/reports/sales [get]
func (h *ReportHandler) SalesReport(c *gin.Context) {
	result, err := h.reportUseCase.Execute(c.Request.Context(), c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ExportSalesReport 导出销售报表
// @Summary      导出销售报表
// @Tags         报表
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        period query string false "week|month|year，默认month"
// @Success      200 {file} file
// @Router       /api/v1/reports/sales/export [get]
func (h *ReportHandler) ExportSalesReport(c *gin.Context) {
	var buf bytes.Buffer
	name, err := h.reportUseCase.Export(c.Request.Context(), c.Query("period"), &buf)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, name, xlsxContentType, buf.Bytes())
}
