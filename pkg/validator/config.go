package validator

import (
	"katydid-form/pkg/config"
)

// WithConfig 应用配置文件中的验证设置
// 只覆盖已设置的字段：空的 Mode、nil 的 AutoTrim 和空模板保持引擎当前值
// 未知的模式名称按 halt 处理（配置加载时已经校验过取值）
func WithConfig(c config.ValidationConfig) Option {
	return func(e *Engine) {
		if c.Mode != "" {
			e.mode, _ = ParseMode(c.Mode)
		}
		if c.AutoTrim != nil {
			e.autoTrim = *c.AutoTrim
		}
		e.messages = e.messages.merge(Messages{
			Error:    c.Messages.Error,
			Required: c.Messages.Required,
			Range:    c.Messages.Range,
			RangeMin: c.Messages.RangeMin,
			RangeMax: c.Messages.RangeMax,
		})
	}
}
