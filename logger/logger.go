package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

func init() {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.StacktraceKey = "" // to hide stacktrace info
	config := zap.NewProductionConfig()
	config.EncoderConfig = encoderConfig
	log, _ = config.Build(zap.AddCallerSkip(1))
}

// Configure replaces the package logger. The host application calls this
// when it wants bridge logs routed through its own zap core.
func Configure(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

func Debug(message string, fields ...zap.Field) {
	log.Debug(message, fields...)
}

func Info(message string, fields ...zap.Field) {
	log.Info(message, fields...)
}

func Warn(message string, fields ...zap.Field) {
	log.Warn(message, fields...)
}

func Error(message string, fields ...zap.Field) {
	log.Error(message, fields...)
}
