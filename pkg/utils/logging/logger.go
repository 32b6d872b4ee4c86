package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aljab017/ill-router/internal/config"
)

const (
	defaultLogDir     = "logs"
	defaultMaxSizeMB  = 50
	defaultMaxBackups = 5
	defaultMaxAgeDays = 28
)

// InitLogger initializes a zap logger with console and rotating file outputs.
// env is used to name the log file.
func InitLogger(env string, cfg config.LogConfig) (*zap.Logger, error) {
	fileWriter, err := newFileWriter(env, cfg)
	if err != nil {
		return nil, err
	}

	return newLogger(zapcore.AddSync(os.Stdout), zapcore.AddSync(fileWriter)), nil
}

// newFileWriter returns a lumberjack writer for logs/<env>.log
func newFileWriter(env string, cfg config.LogConfig) (*lumberjack.Logger, error) {
	logsDir := cfg.Dir
	if logsDir == "" {
		logsDir = defaultLogDir
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	name := env
	if name == "" {
		name = "ill-router"
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, name+".log"),
		MaxSize:    orDefault(cfg.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: orDefault(cfg.MaxBackups, defaultMaxBackups),
		MaxAge:     orDefault(cfg.MaxAgeDays, defaultMaxAgeDays),
		Compress:   cfg.Compress,
	}, nil
}

// newLogger tees a colored console core at Info and a JSON file core at Debug
func newLogger(console, file zapcore.WriteSyncer) *zap.Logger {
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), console, zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), file, zapcore.DebugLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
