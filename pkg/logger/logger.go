package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var (
	globalLogger = zap.NewNop()
	globalMu     sync.RWMutex
)

// SetupLogger builds the process logger for the given environment and installs it globally.
func SetupLogger(env string, level string) *zap.Logger {
	lvl := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	var cfg zap.Config
	switch env {
	case envLocal:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		lvl = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case envDev:
		cfg = zap.NewProductionConfig()
		lvl = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	default:
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			lvl,
		))
	}

	SetLogger(l)

	return l
}

// SetLogger replaces the global logger. It's safe for concurrent use.
func SetLogger(l *zap.Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// Logger returns the global logger without the caller skip used by the helpers below.
func Logger() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return globalLogger.WithOptions(zap.AddCallerSkip(-1))
}

func current() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return globalLogger
}

func Debug(msg string, fields ...zap.Field) {
	current().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	current().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	current().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	current().Error(msg, fields...)
}

func Sync() error {
	return current().Sync()
}
