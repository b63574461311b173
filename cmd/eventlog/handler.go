package main

import (
	"context"

	"github.com/sirupsen/logrus"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	appimport "github.com/xiebiao/bookstore-admin/internal/application/bookimport"
	appsale "github.com/xiebiao/bookstore-admin/internal/application/sale"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
)

// logEvent 按事件类型解析Payload并记录日志
// Payload无法解析时只记录警告,不重新入队
func logEvent(_ context.Context, event *mq.Event) error {
	entry := logger.WithFields(logrus.Fields{
		"event_id":    event.ID,
		"event_type":  event.Type,
		"occurred_at": event.OccurredAt,
	})

	var (
		fields logrus.Fields
		err    error
	)
	switch event.Type {
	case mq.RoutingSaleCreated:
		var e appsale.SaleCreatedEvent
		if err = event.Decode(&e); err == nil {
			fields = logrus.Fields{"sale_no": e.SaleNo, "user_id": e.UserID, "total": appbook.FormatPrice(e.Total), "items": e.Items}
		}
	case mq.RoutingSaleCancelled:
		var e appsale.SaleCancelledEvent
		if err = event.Decode(&e); err == nil {
			fields = logrus.Fields{"sale_no": e.SaleNo, "operator_id": e.OperatorID, "total": appbook.FormatPrice(e.Total)}
		}
	case mq.RoutingBookCreated:
		var e appbook.BookCreatedEvent
		if err = event.Decode(&e); err == nil {
			fields = logrus.Fields{"book_id": e.BookID, "title": e.Title, "isbn": e.ISBN, "operator_id": e.OperatorID}
		}
	case mq.RoutingImportCompleted:
		var e appimport.ImportCompletedEvent
		if err = event.Decode(&e); err == nil {
			fields = logrus.Fields{"job_id": e.JobID, "operator_id": e.OperatorID, "total": e.Total, "success": e.Success, "failed": e.Failed}
		}
	default:
		entry.WithField("payload", string(event.Payload)).Info("未知事件")
		return nil
	}

	if err != nil {
		entry.WithError(err).Warn("事件内容无法解析")
		return nil
	}
	entry.WithFields(fields).Info("收到事件")
	return nil
}
