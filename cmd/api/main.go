// @title           Bookstore Admin API
// @version         1.0
// @description     书店管理后台:图书、分类、客户、销售、报表与表格导入
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Bearer {access_token}
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/xiebiao/bookstore-admin/docs"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
	"github.com/xiebiao/bookstore-admin/pkg/tracing"
)

// shutdownTimeout 等待进行中的请求与导入任务
const shutdownTimeout = 30 * time.Second

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志
	if err := logger.Setup(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Console:    cfg.Log.Console,
	}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	logger.WithFields(map[string]interface{}{
		"port":   cfg.Server.Port,
		"mode":   cfg.Server.Mode,
		"db":     cfg.Database.Driver,
		"redis":  cfg.Redis.Addr(),
		"mq":     cfg.MQ.Enabled,
		"tracer": cfg.Tracing.Enabled,
	}).Info("配置加载成功")

	// 3. 监控与链路追踪
	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}
	shutdownTracer := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdownTracer, err = tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorURL)
		if err != nil {
			logger.Fatalf("初始化链路追踪失败: %v", err)
		}
	}

	// 4. 依赖注入
	app, cleanup, err := initializeApp(cfg)
	if err != nil {
		logger.Fatalf("初始化应用失败: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("🚀 服务启动成功: http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 5. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("⏳ 正在优雅关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("HTTP服务强制关闭")
	}

	// 后台导入任务写完进度后再关闭Redis/数据库
	done := make(chan struct{})
	go func() {
		app.Importer.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Warnf("等待导入任务超时,未完成的任务将保持running状态")
	}

	cleanup()
	if err := shutdownTracer(ctx); err != nil {
		logger.WithError(err).Warn("关闭链路追踪失败")
	}
	logger.Infof("👋 服务已关闭")
}
