//go:build wireinject
// +build wireinject

// Wire依赖注入配置,修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	appimport "github.com/xiebiao/bookstore-admin/internal/application/bookimport"
	appcategory "github.com/xiebiao/bookstore-admin/internal/application/category"
	appcustomer "github.com/xiebiao/bookstore-admin/internal/application/customer"
	appsale "github.com/xiebiao/bookstore-admin/internal/application/sale"
	appuser "github.com/xiebiao/bookstore-admin/internal/application/user"
	"github.com/xiebiao/bookstore-admin/internal/application/settings"
	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/bookimport"
	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	"github.com/xiebiao/bookstore-admin/internal/domain/customer"
	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
	"github.com/xiebiao/bookstore-admin/internal/domain/user"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-admin/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、MQ、JWT
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	providePublisher,
	provideJWTManager,
	provideLocation,
)

// repositorySet 仓储与Redis存储
var repositorySet = wire.NewSet(
	database.NewUserRepository,
	database.NewBookRepository,
	database.NewCategoryRepository,
	database.NewCustomerRepository,
	database.NewSaleRepository,
	database.NewTxManager,
	redis.NewSessionStore,
	redis.NewSettingsStore,
	provideListCache,
	provideJobStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
	wire.Bind(new(settings.TokenStore), new(*redis.SettingsStore)),
	wire.Bind(new(bookimport.JobStore), new(*redis.ImportJobStore)),
	wire.Bind(new(appsale.Transactor), new(*database.TxManager)),
)

// domainSet 领域服务与ISBN查询
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	category.NewService,
	customer.NewService,
	provideSources,
	provideResolver,
	wire.Bind(new(appbook.Resolver), new(*lookup.Resolver)),
	wire.Bind(new(appimport.BookCreator), new(book.Service)),
	wire.Bind(new(appimport.CategoryResolver), new(category.Service)),
	wire.Bind(new(appsale.Inventory), new(book.Repository)),
	wire.Bind(new(appsale.CustomerFinder), new(customer.Repository)),
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewLookupISBNUseCase,
	appcategory.NewCategoryUseCase,
	appcustomer.NewCustomerUseCase,
	appsale.NewCreateSaleUseCase,
	appsale.NewCancelSaleUseCase,
	appsale.NewGetSaleUseCase,
	appsale.NewListSalesUseCase,
	appimport.NewCommitImportUseCase,
	appimport.NewStartImportJobUseCase,
	appimport.NewGetImportJobUseCase,
	provideParseSheetUseCase,
	provideScraperTokenUseCase,
	provideDashboardUseCase,
	provideSalesReportUseCase,
)

// handlerSet HTTP处理器与路由
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewCategoryHandler,
	handler.NewCustomerHandler,
	handler.NewSaleHandler,
	handler.NewReportHandler,
	handler.NewImportHandler,
	handler.NewSettingsHandler,
	middleware.NewAuthMiddleware,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// initializeApp 组装整个应用,cleanup按创建的逆序释放连接
func initializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		newApp,
	)
	return nil, nil, nil
}
