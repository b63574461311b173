package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsale "github.com/xiebiao/bookstore-admin/internal/application/sale"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
)

func TestLogEvent(t *testing.T) {
	hook := test.NewLocal(logger.L())
	ctx := context.Background()

	t.Run("销售单事件", func(t *testing.T) {
		hook.Reset()
		event, err := mq.NewEvent(mq.RoutingSaleCreated, appsale.SaleCreatedEvent{SaleID: 1, SaleNo: "VD20240101-0001", UserID: 2, Total: 12345, Items: 3})
		require.NoError(t, err)

		require.NoError(t, logEvent(ctx, event))

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.InfoLevel, entry.Level)
		assert.Equal(t, "VD20240101-0001", entry.Data["sale_no"])
		assert.Equal(t, "123.45", entry.Data["total"])
	})

	t.Run("内容无法解析不重新入队", func(t *testing.T) {
		hook.Reset()
		event := &mq.Event{ID: "x", Type: mq.RoutingSaleCancelled, Payload: json.RawMessage(`"oops"`)}

		assert.NoError(t, logEvent(ctx, event))
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("未知事件", func(t *testing.T) {
		hook.Reset()
		event := &mq.Event{ID: "y", Type: "other.thing", Payload: json.RawMessage(`{}`)}

		assert.NoError(t, logEvent(ctx, event))
		assert.Equal(t, "{}", hook.LastEntry().Data["payload"])
	})
}
