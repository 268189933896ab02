package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *Config
		verify func(t *testing.T, l *zap.Logger)
	}{
		{
			name: "console logger at debug level",
			cfg:  &Config{Level: "debug", Format: "console", Output: "stdout", TimeFormat: "15:04:05"},
			verify: func(t *testing.T, l *zap.Logger) {
				assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
			},
		},
		{
			name: "json logger at error level",
			cfg:  &Config{Level: "error", Format: "json", Output: "stderr", TimeFormat: "15:04:05"},
			verify: func(t *testing.T, l *zap.Logger) {
				assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
				assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
			},
		},
		{
			name: "unknown level defaults to info",
			cfg:  &Config{Level: "whatever", Format: "json", Output: "stdout", TimeFormat: "15:04:05"},
			verify: func(t *testing.T, l *zap.Logger) {
				assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
				assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			require.NoError(t, err)
			tt.verify(t, l)
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	l, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestContext(t *testing.T) {
	t.Run("round trip through context", func(t *testing.T) {
		l := zap.NewNop()
		ctx := WithContext(context.Background(), l)
		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("missing logger yields nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request id round trip", func(t *testing.T) {
		ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")
		assert.Equal(t, "req-123", GetRequestID(ctx))
		assert.NotNil(t, enriched)
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything-else"))
}
