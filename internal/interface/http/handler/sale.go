package handler

import (
	"github.com/gin-gonic/gin"

	appsale "github.com/xiebiao/bookstore-admin/internal/application/sale"
	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

// SaleHandler 销售单HTTP处理器
type SaleHandler struct {
	createUseCase *appsale.CreateSaleUseCase
	cancelUseCase *appsale.CancelSaleUseCase
	getUseCase    *appsale.GetSaleUseCase
	listUseCase   *appsale.ListSalesUseCase
}

// NewSaleHandler 创建销售单处理器
func NewSaleHandler(
	createUseCase *appsale.CreateSaleUseCase,
	cancelUseCase *appsale.CancelSaleUseCase,
	getUseCase *appsale.GetSaleUseCase,
	listUseCase *appsale.ListSalesUseCase,
) *SaleHandler {
	return &SaleHandler{
		createUseCase: createUseCase,
		cancelUseCase: cancelUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
	}
}

// CreateSale 新建销售单
// @Summary      新建销售单
// @Description  按当前价格计算金额并扣减库存，同一本书的多行会合并
// @Tags         销售
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateSaleRequest true "销售信息"
// @Success      200 {object} response.Response{data=appsale.SaleDTO}
// @Failure      200 {object} response.Response "库存不足(40001)"
// @Router       /api/v1/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	lines := make([]sale.Line, len(req.Items))
	for i, it := range req.Items {
		lines[i] = sale.Line{BookID: it.BookID, Quantity: it.Quantity}
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appsale.CreateSaleRequest{
		UserID:        middleware.MustGetUserID(c),
		CustomerID:    req.CustomerID,
		PaymentMethod: sale.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
		Items:         lines,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CancelSale 取消销售单
// @Summary      取消销售单
// @Description  只有已完成的销售单可以取消，库存恢复
// @Tags         销售
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "销售单ID"
// @Success      200 {object} response.Response{data=appsale.SaleDTO}
// @Router       /api/v1/sales/{id}/cancel [post]
func (h *SaleHandler) CancelSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.cancelUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetSale 销售单详情
// @Summary      销售单详情
// @Tags         销售
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "销售单ID"
// @Success      200 {object} response.Response{data=appsale.SaleDTO}
// @Router       /api/v1/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListSales 销售单列表
// @Summary      销售单列表
// @Description  按创建时间倒序
// @Tags         销售
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.listUseCase.Execute(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}
