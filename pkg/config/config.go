// Package config 加载验证引擎与日志的配置，支持 YAML、JSON、TOML 和环境变量.
//
// Example:
//
//	cfg, err := config.Load("./configs")
//	if err != nil {
//		return err
//	}
//
//	engine := validator.New(validator.WithConfig(cfg.Validation))
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 KATYDID_FORM_VALIDATION_MODE=accumulate.
const EnvPrefix = "KATYDID_FORM"

// configName 目录模式下查找的配置文件名（不含扩展名）.
const configName = "config"

// ErrInvalidConfig 配置值不合法.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config 全局配置.
	Config struct {
		Validation ValidationConfig `mapstructure:"validation"`
		Log        LogConfig        `mapstructure:"log"`
	}
)

// Load 加载配置.
// path 为文件时直接读取（按扩展名识别格式）；为目录时查找 config.{yaml,yml,json,toml}；
// 为空或找不到配置文件时只使用默认值和环境变量.
func Load(path string) (*Config, error) {
	v := viper.New()
	setAllDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := resolveFile(path); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回只包含默认值的配置（不读取环境变量）.
func Default() *Config {
	return &Config{
		Validation: defaultValidationConfig(),
		Log:        defaultLogConfig(),
	}
}

// Validate 使用 go-playground/validator 校验配置结构.
func (c *Config) Validate() error {
	if err := playground.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// resolveFile 解析配置文件路径，找不到时返回空字符串.
func resolveFile(path string) string {
	if path == "" {
		return ""
	}

	info, err := os.Stat(path)
	if err != nil {
		// 不存在的路径按文件处理，交给 viper 报告读取错误
		return path
	}
	if !info.IsDir() {
		return path
	}

	for _, ext := range []string{"yaml", "yml", "json", "toml"} {
		for _, dir := range []string{path, filepath.Join(path, "configs")} {
			file := filepath.Join(dir, configName+"."+ext)
			if _, err := os.Stat(file); err == nil {
				return file
			}
		}
	}
	return ""
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var validationConfig ValidationConfig

	var logConfig LogConfig

	validationConfig.setDefaults(v)
	logConfig.setDefaults(v)
}
