package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"bookreview/internal/core/config"
)

// New 按配置构建 zap：JSON 用于线上，控制台格式用于开发；可选 lumberjack 切割
func New(c config.Log) (*zap.Logger, func()) {
	var lvl zapcore.Level
	if err := lvl.Set(c.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	var enc zapcore.Encoder
	if c.JSON {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.TimeKey = "ts"
		ec.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeCaller = zapcore.ShortCallerEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}

	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl)}

	var rotator *lumberjack.Logger
	if c.Rotate.Enable {
		rotator = &lumberjack.Logger{
			Filename:   c.Rotate.Filename,
			MaxSize:    max(1, c.Rotate.MaxSizeMB),
			MaxBackups: max(0, c.Rotate.MaxBackups),
			MaxAge:     max(0, c.Rotate.MaxAgeDays),
			Compress:   c.Rotate.Compress,
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rotator), lvl))
	}

	sampled := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	opts := []zap.Option{zap.AddCaller()}
	if !c.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(sampled, opts...)
	cleanup := func() {
		_ = l.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return l, cleanup
}
