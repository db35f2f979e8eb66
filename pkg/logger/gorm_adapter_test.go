package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"marketplace/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"
)

func messages(logs *observer.ObservedLogs) []string {
	out := make([]string, 0, logs.Len())
	for _, e := range logs.All() {
		out = append(out, e.Message)
	}
	return out
}

func TestGormLoggerAdapter(t *testing.T) {
	testCases := []struct {
		name      string
		logLevel  logger.LogLevel
		wantInfo  bool
		wantTrace bool
	}{
		{"Warn Level", logger.Warn, false, false},
		{"Info Level", logger.Info, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			restore := Replace(zap.New(core))
			defer restore()

			adapter := NewGormLoggerAdapter(tc.logLevel)
			assert.NotNil(t, adapter.LogMode(logger.Info))

			ctx := context.Background()
			adapter.Info(ctx, "test info message")
			adapter.Warn(ctx, "test warn message")
			adapter.Error(ctx, "test error message")
			adapter.Trace(ctx, time.Now(), func() (string, int64) {
				return "SELECT * FROM orders", 1
			}, nil)

			got := messages(logs)
			assert.Contains(t, got, "test warn message")
			assert.Contains(t, got, "test error message")
			if tc.wantInfo {
				assert.Contains(t, got, "test info message")
			} else {
				assert.NotContains(t, got, "test info message")
			}
			if tc.wantTrace {
				assert.Contains(t, got, "SQL query executed")
				for _, e := range logs.FilterMessage("SQL query executed").All() {
					assert.Equal(t, "SELECT * FROM orders", e.ContextMap()["sql"])
				}
			} else {
				assert.NotContains(t, got, "SQL query executed")
			}
		})
	}
}

func TestGormLoggerAdapterWithConfig(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	adapter := NewGormLoggerAdapterWithConfig(logger.Info, &GormLoggerConfig{
		SlowThreshold:             10 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
		AddCaller:                 true,
	})

	ctx := persistence.ContextWithRequestID(context.Background(), "test-request-123")

	adapter.Trace(ctx, time.Now().Add(-20*time.Millisecond), func() (string, int64) {
		return "SELECT * FROM order_status_history", 1
	}, nil)
	adapter.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM reviews WHERE id = 'x'", 0
	}, logger.ErrRecordNotFound)

	slow := logs.FilterMessage("Slow SQL query").All()
	if assert.Len(t, slow, 1) {
		assert.Equal(t, "test-request-123", slow[0].ContextMap()["request_id"])
		assert.Equal(t, "order_status_history", slow[0].ContextMap()["table"])
	}
	assert.Zero(t, logs.FilterMessage("Database operation failed").Len())
	assert.Zero(t, logs.FilterMessage("Database record not found").Len())
}

func TestGormLoggerAdapterLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	adapter := NewGormLoggerAdapterWithConfig(logger.Warn, &GormLoggerConfig{})
	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "UPDATE orders SET status = 'shipped'", 0
	}, errors.New("deadlock"))

	failed := logs.FilterMessage("Database operation failed").All()
	if assert.Len(t, failed, 1) {
		assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
		assert.Equal(t, "orders", failed[0].ContextMap()["table"])
	}
}

func TestStatementTable(t *testing.T) {
	cases := map[string]string{
		"SELECT * FROM `orders` WHERE id = ?":               "orders",
		"INSERT INTO `outbox_events` (`id`) VALUES (?)":     "outbox_events",
		"UPDATE payouts SET status = 'completed'":           "payouts",
		"select count(*) from reviews where product_id = ?": "reviews",
		"SELECT 1": "",
	}
	for sql, want := range cases {
		assert.Equal(t, want, statementTable(sql), sql)
	}
}
