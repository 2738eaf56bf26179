package validator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ============================================================================
// 消息格式化 - 模板占位符替换
// ============================================================================

// placeholderAttribute 属性显示名占位符
const placeholderAttribute = "attribute"

// MessageFormatter 消息模板格式化器
// 支持 {attribute} 以及任意规则选项占位符（{min}、{max}、{in} ...）
// 未知占位符原样保留
type MessageFormatter struct{}

// NewMessageFormatter 创建消息格式化器
func NewMessageFormatter() *MessageFormatter {
	return &MessageFormatter{}
}

// Format 渲染消息模板
// 集合类型的选项以逗号拼接，布尔选项不参与替换
// 单遍扫描，替换结果中的花括号不会被再次解析
func (f *MessageFormatter) Format(template, label string, options Options) string {
	if strings.IndexByte(template, '{') < 0 {
		return template
	}

	b := acquireBuilder()
	defer releaseBuilder(b)
	b.Grow(len(template) + len(label))

	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open+1:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += open + 1

		b.WriteString(rest[:open])
		key := rest[open+1 : end]
		if key == placeholderAttribute {
			b.WriteString(label)
		} else if text, ok := placeholder(options[key]); ok {
			b.WriteString(text)
		} else {
			b.WriteString(rest[open : end+1])
		}
		rest = rest[end+1:]
	}
	return b.String()
}

// Label 解析属性显示名：声明的标签优先，否则首字母大写的属性名
func (f *MessageFormatter) Label(attribute string, labels map[string]string) string {
	if label, ok := labels[attribute]; ok && label != "" {
		return label
	}
	// Caser 有状态，不能跨 goroutine 共享，每次新建
	return cases.Title(language.Und, cases.NoLower).String(attribute)
}
