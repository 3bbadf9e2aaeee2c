package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例
var Log *zap.Logger

// InitLogger 初始化 zap 日志
// debug 模式下使用开发配置（彩色、可读），生产使用 JSON 格式
func InitLogger(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	Log = l
}

// Sync 刷新缓冲的日志条目，进程退出前调用
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
