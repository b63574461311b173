package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-admin/internal/application/settings"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

// SettingsHandler 设置HTTP处理器
type SettingsHandler struct {
	tokenUseCase *settings.ScraperTokenUseCase
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(tokenUseCase *settings.ScraperTokenUseCase) *SettingsHandler {
	return &SettingsHandler{tokenUseCase: tokenUseCase}
}

// GetScraperToken 抓取服务Token状态
// @Summary      抓取服务Token状态
// @Description  只返回末4位
// @Tags         设置
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=settings.TokenStatus}
// @Router       /api/v1/settings/scraper-token [get]
func (h *SettingsHandler) GetScraperToken(c *gin.Context) {
	result, err := h.tokenUseCase.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SetScraperToken 保存抓取服务Token
// @Summary      保存抓取服务Token
// @Tags         设置
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ScraperTokenRequest true "Token"
// @Success      200 {object} response.Response{data=settings.TokenStatus}
// @Router       /api/v1/settings/scraper-token [put]
func (h *SettingsHandler) SetScraperToken(c *gin.Context) {
	var req dto.ScraperTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.tokenUseCase.Set(c.Request.Context(), middleware.MustGetUserID(c), req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteScraperToken 删除抓取服务Token
// @Summary      删除抓取服务Token
// @Description  回退到配置文件中的Token
// @Tags         设置
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=settings.TokenStatus}
// @Router       /api/v1/settings/scraper-token [delete]
func (h *SettingsHandler) DeleteScraperToken(c *gin.Context) {
	result, err := h.tokenUseCase.Delete(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
