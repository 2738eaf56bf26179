package config

import (
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel      = "info"                  // 日志级别
	DefaultLogFormat     = "console"               // 输出格式：console 或 json
	DefaultLogEnableFile = false                   // 是否启用文件日志
	DefaultLogFilePath   = "logs/katydid-form.log" // 日志文件路径
	DefaultLogMaxSize    = 100                     // 日志文件最大尺寸（MB）
	DefaultLogMaxBackups = 7                       // 日志文件最大备份数量
	DefaultLogMaxAge     = 28                      // 日志文件最大保存天数
	DefaultLogCompress   = true                    // 是否启用日志文件压缩
)

type (
	// LogConfig 日志相关配置.
	LogConfig struct {
		Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
		Format     string `mapstructure:"format" validate:"oneof=console json"`
		EnableFile bool   `mapstructure:"enable_file"`
		FilePath   string `mapstructure:"file_path" validate:"required_if=EnableFile true"`
		MaxSize    int    `mapstructure:"max_size_mb" validate:"gte=0"`
		MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
		MaxAge     int    `mapstructure:"max_age_days" validate:"gte=0"`
		Compress   bool   `mapstructure:"compress"`
	}
)

func (l *LogConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.enable_file", DefaultLogEnableFile)
	v.SetDefault("log.file_path", DefaultLogFilePath)
	v.SetDefault("log.max_size_mb", DefaultLogMaxSize)
	v.SetDefault("log.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log.max_age_days", DefaultLogMaxAge)
	v.SetDefault("log.compress", DefaultLogCompress)
}

func defaultLogConfig() LogConfig {
	return LogConfig{
		Level:      DefaultLogLevel,
		Format:     DefaultLogFormat,
		EnableFile: DefaultLogEnableFile,
		FilePath:   DefaultLogFilePath,
		MaxSize:    DefaultLogMaxSize,
		MaxBackups: DefaultLogMaxBackups,
		MaxAge:     DefaultLogMaxAge,
		Compress:   DefaultLogCompress,
	}
}
