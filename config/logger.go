package config

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootLogger is the process wide logger. Request scoped loggers hang off of
// this with additional fields. Level and encoding are controlled with
// AT_LOG_LEVEL and AT_LOG_MODE before process start.
var RootLogger = newRootLogger()

// logger keeps package internal call sites terse.
var logger = RootLogger

func newRootLogger() *zap.Logger {
	lvl := zapcore.InfoLevel
	if parsed, err := strconv.ParseInt(os.Getenv(AT_LOG_LEVEL), 10, 8); err == nil {
		lvl = zapcore.Level(parsed)
	}

	var cfg zap.Config
	switch os.Getenv(AT_LOG_MODE) {
	case "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "utctime"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if location := os.Getenv(AT_LOG_LOCATION); location != "" {
		cfg.OutputPaths = []string{location}
	}

	l, err := cfg.Build()
	if err != nil {
		fmt.Printf("Unable to build logger: %v\n", err)
		os.Exit(1)
	}
	return l
}
