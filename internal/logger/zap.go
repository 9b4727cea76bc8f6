package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger implements Logger using uber-go/zap
type zapLogger struct {
	logger *zap.Logger
	level  Level
}

// NewZapLogger creates a new Logger backed by zap
func NewZapLogger(cfg Config) Logger {
	zcfg := zap.NewProductionConfig()
	if cfg.Format == "text" {
		zcfg.Encoding = "console"
	}
	zcfg.Level = zap.NewAtomicLevelAt(toZapLevel(cfg.Level))
	zcfg.DisableCaller = !cfg.AddSource

	zl, err := zcfg.Build()
	if err != nil {
		// Config above is static; Build only fails on invalid encoding.
		zl = zap.NewNop()
	}

	return &zapLogger{
		logger: zl,
		level:  cfg.Level,
	}
}

// toZapLevel converts our Level to zapcore.Level
func toZapLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// fieldsToZap converts our Field slice to zap fields
func fieldsToZap(fields []Field) []zap.Field {
	zfields := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zfields = append(zfields, zap.Any(f.Key, f.Value))
	}
	return zfields
}

func (l *zapLogger) Debug(msg string, fields ...Field) {
	l.logger.Debug(msg, fieldsToZap(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Field) {
	l.logger.Info(msg, fieldsToZap(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Field) {
	l.logger.Warn(msg, fieldsToZap(fields)...)
}

func (l *zapLogger) Error(msg string, fields ...Field) {
	l.logger.Error(msg, fieldsToZap(fields)...)
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{
		logger: l.logger.With(fieldsToZap(fields)...),
		level:  l.level,
	}
}

func (l *zapLogger) WithContext(ctx context.Context) Logger {
	fields := extractContextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func (l *zapLogger) Level() Level {
	return l.level
}
