// Package logger 基于 zap 构建验证引擎使用的日志，支持控制台输出和文件输出（lumberjack 轮转）.
//
// Example:
//
//	cfg, _ := config.Load("./configs")
//	log, err := logger.New(cfg.Log)
//	if err != nil {
//		return err
//	}
//	defer log.Sync()
//
//	engine := validator.New(validator.WithLogger(log), validator.WithConfig(cfg.Validation))
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"katydid-form/pkg/config"
)

// New 按配置创建 logger
// console 格式使用开发模式编码器，json 格式使用生产模式编码器；
// 开启文件日志时额外写入 lumberjack 轮转文件（始终使用 json 编码）
func New(cfg config.LogConfig) (*zap.Logger, error) {
	return newWithSink(cfg, zapcore.Lock(os.Stderr))
}

// newWithSink 控制台输出写入 sink
func newWithSink(cfg config.LogConfig, sink zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "", "console":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("%w: unknown log format %q", config.ErrInvalidConfig, cfg.Format)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder, sink, level)}

	if cfg.EnableFile {
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("%w: log file path is empty", config.ErrInvalidConfig)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(file), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// ParseLevel 解析日志级别，空字符串按 info 处理
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return level, nil
}
