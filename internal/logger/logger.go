package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. APP_ENV=production switches to the
// JSON encoder; anything else gets the console encoder for local work.
func NewLogger() *zap.Logger {
	var loggerConfig zap.Config
	if os.Getenv("APP_ENV") == "production" {
		loggerConfig = zap.NewProductionConfig()
	} else {
		loggerConfig = zap.NewDevelopmentConfig()
	}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := loggerConfig.Build()
	if err != nil {
		panic(err)
	}

	return logger
}
