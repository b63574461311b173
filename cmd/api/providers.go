package main

import (
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	appimport "github.com/xiebiao/bookstore-admin/internal/application/bookimport"
	"github.com/xiebiao/bookstore-admin/internal/application/dashboard"
	appreport "github.com/xiebiao/bookstore-admin/internal/application/report"
	"github.com/xiebiao/bookstore-admin/internal/application/settings"
	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/customer"
	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/bookapi"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/database"
	redisstore "github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookstore-admin/pkg/jwt"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
)

// App 进程内需要在退出时处理的对象
type App struct {
	Engine   *gin.Engine
	Importer *appimport.StartImportJobUseCase
}

func newApp(engine *gin.Engine, importer *appimport.StartImportJobUseCase) *App {
	return &App{Engine: engine, Importer: importer}
}

// provideDB 数据库连接,cleanup关闭连接池
func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := database.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis Redis连接,cleanup关闭连接
func provideRedis(cfg *config.Config) (*goredis.Client, func(), error) {
	client, err := redisstore.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// providePublisher MQ未启用或连接失败时使用NoopPublisher
// 事件只是通知,MQ不可用不影响启动
func providePublisher(cfg *config.Config) (mq.EventPublisher, func()) {
	if !cfg.MQ.Enabled {
		return mq.NoopPublisher{}, func() {}
	}
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		logger.WithError(err).Warn("连接RabbitMQ失败,事件不会发布")
		return mq.NoopPublisher{}, func() {}
	}
	return p, func() { _ = p.Close() }
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideListCache(client *goredis.Client, cfg *config.Config) appbook.ListCache {
	return redisstore.NewListCache(client, cfg.Redis.ListCacheTTL)
}

func provideJobStore(client *goredis.Client, cfg *config.Config) *redisstore.ImportJobStore {
	return redisstore.NewImportJobStore(client, cfg.Import.JobTTL)
}

// provideLocation 报表按数据库时区分组
func provideLocation(cfg *config.Config) *time.Location {
	if cfg.Database.Loc == "" || cfg.Database.Loc == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.Database.Loc)
	if err != nil {
		logger.WithError(err).Warnf("未知时区%s,使用本地时区", cfg.Database.Loc)
		return time.Local
	}
	return loc
}

// provideSources 按顺序组装外部数据源:公共API → 抓取服务
// 每个数据源独立缓存与熔断
func provideSources(cfg *config.Config, client *goredis.Client, store *redisstore.SettingsStore) []lookup.Source {
	cache := redisstore.NewLookupCache(client, cfg.Lookup.CacheTTL)
	breaker := bookapi.BreakerConfig(cfg.Lookup.Breaker)

	var sources []lookup.Source
	if api := cfg.Lookup.PublicAPI; api.Enabled {
		src := bookapi.NewGoogleBooks(api.BaseURL, api.APIKey, api.Timeout)
		sources = append(sources, bookapi.NewGuardedSource(bookapi.NewCachedSource(src, cache), breaker))
	}
	if sc := cfg.Lookup.Scraper; sc.Enabled {
		client := bookapi.NewApifyClient(bookapi.ApifyConfig{
			BaseURL:        sc.BaseURL,
			ActorID:        sc.ActorID,
			SearchURL:      sc.SearchURL,
			MaxItems:       sc.MaxItems,
			RequestTimeout: sc.RequestTimeout,
		})
		runner := lookup.NewJobRunner(client, lookup.ContextSleeper, sc.PollInterval, sc.MaxAttempts)
		creds := lookup.CredentialChain{store, lookup.StaticCredential(sc.Token)}
		src := lookup.NewScraperSource(runner, creds)
		sources = append(sources, bookapi.NewGuardedSource(bookapi.NewCachedSource(src, cache), breaker))
	}
	return sources
}

func provideResolver(books book.Repository, sources []lookup.Source) *lookup.Resolver {
	return lookup.NewResolver(books, sources...)
}

func provideParseSheetUseCase(cfg *config.Config) *appimport.ParseSheetUseCase {
	return appimport.NewParseSheetUseCase(cfg.Import.MaxFileSize)
}

func provideScraperTokenUseCase(cfg *config.Config, store *redisstore.SettingsStore) *settings.ScraperTokenUseCase {
	return settings.NewScraperTokenUseCase(store, cfg.Lookup.Scraper.Token)
}

func provideDashboardUseCase(books book.Repository, customers customer.Repository, sales sale.Repository) *dashboard.UseCase {
	return dashboard.NewUseCase(books, customers, sales)
}

func provideSalesReportUseCase(sales sale.Repository, loc *time.Location) *appreport.SalesReportUseCase {
	return appreport.NewSalesReportUseCase(sales, loc)
}
