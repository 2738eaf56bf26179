package config

import (
	"github.com/spf13/viper"
)

const (
	DefaultValidationAutoTrim = true   // 赋值时是否去掉字符串前后空格
	DefaultValidationMode     = "halt" // 验证模式：halt 或 accumulate
)

type (
	// ValidationConfig 验证引擎配置.
	ValidationConfig struct {
		// AutoTrim nil 表示不覆盖引擎设置
		AutoTrim *bool          `mapstructure:"auto_trim"`
		Mode     string         `mapstructure:"mode" validate:"oneof=halt accumulate"`
		Messages MessagesConfig `mapstructure:"messages"`
	}

	// MessagesConfig 引擎级默认消息模板，空值表示使用内置模板.
	MessagesConfig struct {
		Error    string `mapstructure:"error"`
		Required string `mapstructure:"required"`
		Range    string `mapstructure:"range"`
		RangeMin string `mapstructure:"range_min"`
		RangeMax string `mapstructure:"range_max"`
	}
)

func (c *ValidationConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("validation.auto_trim", DefaultValidationAutoTrim)
	v.SetDefault("validation.mode", DefaultValidationMode)
	v.SetDefault("validation.messages.error", "")
	v.SetDefault("validation.messages.required", "")
	v.SetDefault("validation.messages.range", "")
	v.SetDefault("validation.messages.range_min", "")
	v.SetDefault("validation.messages.range_max", "")
}

func defaultValidationConfig() ValidationConfig {
	autoTrim := DefaultValidationAutoTrim
	return ValidationConfig{
		AutoTrim: &autoTrim,
		Mode:     DefaultValidationMode,
	}
}
