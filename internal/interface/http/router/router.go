// Package router 注册HTTP路由
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookstore-admin/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	User     *handler.UserHandler
	Book     *handler.BookHandler
	Category *handler.CategoryHandler
	Customer *handler.CustomerHandler
	Sale     *handler.SaleHandler
	Report   *handler.ReportHandler
	Import   *handler.ImportHandler
	Settings *handler.SettingsHandler
}

// New 创建Gin引擎并注册路由
// 管理后台除注册、登录、刷新Token外全部需要登录
func New(cfg *config.Config, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Tracing(cfg.Tracing.ServiceName),
		middleware.Logger(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware())
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/refresh", h.User.Refresh)
		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
	}

	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())

	authorized.GET("/dashboard", h.Report.Dashboard)
	reports := authorized.Group("/reports")
	{
		reports.GET("/sales", h.Report.SalesReport)
		reports.GET("/sales/export", h.Report.ExportSalesReport)
	}

	books := authorized.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.POST("", h.Book.CreateBook)
		books.GET("/lookup/:isbn", h.Book.LookupISBN)
		books.GET("/:id", h.Book.GetBook)
		books.PUT("/:id", h.Book.UpdateBook)
		books.DELETE("/:id", h.Book.DeleteBook)
	}

	categories := authorized.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}

	customers := authorized.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}

	sales := authorized.Group("/sales")
	{
		sales.GET("", h.Sale.ListSales)
		sales.POST("", h.Sale.CreateSale)
		sales.GET("/:id", h.Sale.GetSale)
		sales.POST("/:id/cancel", h.Sale.CancelSale)
	}

	imports := authorized.Group("/imports")
	{
		imports.GET("/template", h.Import.Template)
		imports.POST("/parse", h.Import.Parse)
		imports.POST("/commit", h.Import.Commit)
		imports.POST("/jobs", h.Import.StartJob)
		imports.GET("/jobs/:id", h.Import.GetJob)
	}

	settings := authorized.Group("/settings")
	{
		settings.GET("/scraper-token", h.Settings.GetScraperToken)
		settings.PUT("/scraper-token", h.Settings.SetScraperToken)
		settings.DELETE("/scraper-token", h.Settings.DeleteScraperToken)
	}

	return r
}
