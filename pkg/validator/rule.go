package validator

import (
	"fmt"
)

// ============================================================================
// 规则声明 - 表单作者静态声明的 (属性集合, 验证器名, 选项)
// ============================================================================

// Rule 规则声明
// 一条规则可以把多个属性绑定到同一个验证器
//
// 示例：
//
//	func (f *SignupForm) Rules() []validator.Rule {
//	    return []validator.Rule{
//	        validator.NewRule("string", "name").Min(6).Max(30),
//	        validator.NewRule("integer", "age", "sex"),
//	        validator.Tuple("sex", "in", validator.Options{"in": []int{1, 2}}),
//	    }
//	}
type Rule struct {
	// Attributes 属性名（有序，至少一个）
	Attributes []string
	// Validator 验证器名（内置或自定义）
	Validator string
	// Options 规则选项
	Options Options

	// err 元组形式声明时的结构错误，编译时报告
	err string
}

// NewRule 创建规则声明
func NewRule(validatorName string, attributes ...string) Rule {
	return Rule{
		Attributes: attributes,
		Validator:  validatorName,
		Options:    Options{},
	}
}

// Tuple 以元组形式声明规则：(属性或属性列表, 验证器名, 选项...)
// 元素不足两个或类型不符时，错误延迟到规则编译时以 InvalidRuleError 报告
func Tuple(elems ...any) Rule {
	if len(elems) < 2 {
		return Rule{err: fmt.Sprintf("rule must have at least 2 elements, got %d", len(elems))}
	}

	r := Rule{Options: Options{}}
	switch attrs := elems[0].(type) {
	case string:
		r.Attributes = []string{attrs}
	case []string:
		r.Attributes = attrs
	default:
		return Rule{err: fmt.Sprintf("attribute operand must be string or []string, got %T", elems[0])}
	}

	name, ok := elems[1].(string)
	if !ok {
		return Rule{err: fmt.Sprintf("validator name must be a string, got %T", elems[1])}
	}
	r.Validator = name

	for _, e := range elems[2:] {
		opts, ok := e.(Options)
		if !ok {
			if m, isMap := e.(map[string]any); isMap {
				opts = m
			} else {
				return Rule{err: fmt.Sprintf("rule options must be validator.Options, got %T", e)}
			}
		}
		for k, v := range opts {
			r.Options[k] = v
		}
	}
	return r
}

// With 设置任意选项
func (r Rule) With(key string, value any) Rule {
	opts := make(Options, len(r.Options)+1)
	for k, v := range r.Options {
		opts[k] = v
	}
	opts[key] = value
	r.Options = opts
	return r
}

// Min 最小长度/最小值
func (r Rule) Min(v any) Rule { return r.With(OptMin, v) }

// Max 最大长度/最大值
func (r Rule) Max(v any) Rule { return r.With(OptMax, v) }

// In 允许的取值集合
func (r Rule) In(values ...any) Rule { return r.With(OptIn, values) }

// Pattern 正则表达式
func (r Rule) Pattern(p string) Rule { return r.With(OptPattern, p) }

// Element 数组元素使用的验证器
func (r Rule) Element(name string) Rule { return r.With(OptValidator, name) }

// Message 验证失败消息模板
func (r Rule) Message(m string) Rule { return r.With(OptMessage, m) }

// RequiredMessage 必填失败消息模板
func (r Rule) RequiredMessage(m string) Rule { return r.With(OptRequireMessage, m) }

// RangeMessage 范围失败消息模板
func (r Rule) RangeMessage(m string) Rule { return r.With(OptMaxMinMessage, m) }

// Required 显式标记为必填
func (r Rule) Required() Rule { return r.With(OptIsRequired, true) }

// Optional 显式标记为非必填，不受表单 defaultRequired 影响
func (r Rule) Optional() Rule { return r.With(OptIsRequired, false) }

// ============================================================================
// 编译后的规则
// ============================================================================

// Requiredness 必填性：显式必填、显式非必填或跟随表单默认设置
type Requiredness int8

const (
	// RequiredDefault 跟随表单实例的 defaultRequired
	RequiredDefault Requiredness = iota
	// RequiredYes 显式必填
	RequiredYes
	// RequiredNo 显式非必填
	RequiredNo
)

// CompiledRule 展开后的单属性规则，按类型缓存，所有实例共享
// 属性值不在此缓存，验证时实时读取
type CompiledRule struct {
	Attribute string
	Validator string
	Required  Requiredness
	HasRange  bool
	Options   Options

	ErrorMessage    string
	RequiredMessage string
	RangeMessage    string
}

// IsRequired 结合表单实例的默认设置计算是否必填
func (r *CompiledRule) IsRequired(defaultRequired bool) bool {
	switch r.Required {
	case RequiredYes:
		return true
	case RequiredNo:
		return false
	default:
		return defaultRequired
	}
}
