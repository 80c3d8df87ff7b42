package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var gLogger *zap.Logger

func init() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	var err error
	gLogger, err = cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
}

func Info(msg string, fields ...zap.Field) {
	gLogger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	gLogger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	gLogger.Error(msg, fields...)
}
