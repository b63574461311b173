// eventlog 订阅管理后台发布的领域事件并写入日志
// 用于审计与排查,MQ未启用时无需部署
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/bookstore-admin/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
)

const queueName = "bookstore.admin.eventlog"

// routingKeys 订阅全部目录与销售事件
var routingKeys = []string{"catalog.#", "sale.*"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := logger.Setup(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: "stdout",
	}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	metrics.InitMetrics()

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, queueName, routingKeys)
	if err != nil {
		logger.Fatalf("创建消费者失败: %v", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Consume(ctx, logEvent); err != nil {
		logger.WithError(err).Error("消费中断")
		os.Exit(1)
	}
}
