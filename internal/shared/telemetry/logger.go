package telemetry

import (
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = newLogger()
)

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// SetLogger replaces the process logger. Passing nil restores the default.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = newLogger()
	}
	logger = l
}

// Logger returns the underlying zap logger.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	Logger().Info(msg, toZap(fields)...)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	Logger().Warn(msg, toZap(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	Logger().Error(msg, toZap(fields)...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger().Sync()
}

func toZap(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		switch v := fields[k].(type) {
		case error:
			if v == nil {
				out = append(out, zap.Skip())
				continue
			}
			out = append(out, zap.String(k, v.Error()))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
