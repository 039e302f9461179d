package logger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogThrottler_DefaultInterval(t *testing.T) {
	throttler := NewLogThrottler(zap.NewNop(), 0)

	require.NotNil(t, throttler)
	assert.Equal(t, defaultThrottleInterval, throttler.interval)
}

func TestLogThrottler_Warn(t *testing.T) {
	t.Run("first call is WARN, repeats are DEBUG", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		throttler := NewLogThrottler(zap.New(core), time.Hour)

		throttler.Warn("outbox:1", "first", zap.String("id", "1"))
		throttler.Warn("outbox:1", "second")
		throttler.Warn("outbox:1", "third")

		require.Equal(t, 3, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
		assert.Equal(t, "1", logs.All()[0].ContextMap()["id"])
		assert.Equal(t, zapcore.DebugLevel, logs.All()[1].Level)
		assert.Equal(t, zapcore.DebugLevel, logs.All()[2].Level)
	})

	t.Run("keys are independent", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		throttler := NewLogThrottler(zap.New(core), time.Hour)

		throttler.Warn("a", "msg")
		throttler.Warn("b", "msg")

		require.Equal(t, 2, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
		assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
	})

	t.Run("reset re-enables WARN", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		throttler := NewLogThrottler(zap.New(core), time.Hour)

		throttler.Warn("a", "msg")
		throttler.Reset("a")
		throttler.Warn("a", "msg")

		require.Equal(t, 2, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
	})

	t.Run("concurrent use yields a single WARN per key", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		throttler := NewLogThrottler(zap.New(core), time.Hour)

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				throttler.Warn("shared", fmt.Sprintf("msg-%d", i))
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
		assert.Equal(t, 49, logs.FilterLevelExact(zapcore.DebugLevel).Len())
	})
}
