package validator

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// ============================================================================
// 表单构造 - 用原始输入填充表单属性
// ============================================================================

// FormPointer 表单结构体指针约束
type FormPointer[T any] interface {
	*T
	Form
}

// NewForm 使用默认引擎创建并填充表单
//
// 示例：
//
//	form, err := validator.NewForm[SignupForm](data, false)
//	if err != nil {
//	    return err
//	}
//	ok, err := validator.Validate(form)
func NewForm[T any, P FormPointer[T]](data map[string]any, defaultRequired bool) (P, error) {
	return NewFormWith[T, P](Default(), data, defaultRequired)
}

// NewFormWith 使用指定引擎创建并填充表单
func NewFormWith[T any, P FormPointer[T]](e *Engine, data map[string]any, defaultRequired bool) (P, error) {
	form := P(new(T))
	if err := e.Instantiate(form, data, defaultRequired); err != nil {
		return nil, err
	}
	return form, nil
}

// Instantiate 使用默认引擎填充表单
func Instantiate(form Form, data map[string]any, defaultRequired bool) error {
	return Default().Instantiate(form, data, defaultRequired)
}

// Instantiate 用原始输入填充表单
//   - 只赋值与属性同名的键，其余键忽略
//   - 自动去空格开启时（默认开启），字符串值去掉前后空格
//   - defaultRequired 作为未显式声明 isRequired 的规则的必填性
//   - 每次调用都会清空上一次的输入记录
//
// 值无法存入字段类型时（如 "abc" 写入 int 字段），字段保持不变，
// 原始输入保存在表单中，验证时按原始输入判断
func (e *Engine) Instantiate(form Form, data map[string]any, defaultRequired bool) error {
	record, err := recordValue(form)
	if err != nil {
		return err
	}
	attrs, err := e.attributes.AttributesOf(record.Type())
	if err != nil {
		return err
	}

	base := form.FormBase()
	base.SetDefaultRequired(defaultRequired)
	base.resetInput()
	trim := base.autoTrimOr(e.autoTrim)

	for name, value := range data {
		if !attrs.Has(name) {
			continue
		}
		if s, ok := value.(string); ok && trim {
			value = strings.TrimSpace(s)
		}
		stored := attrs.Set(record, name, value)
		base.markAssigned(name, value, stored)
		if !stored {
			e.logger.Debug("attribute value not assignable, keeping raw input",
				zap.Stringer("type", record.Type()),
				zap.String("attribute", name),
				zap.String("value_type", fmt.Sprintf("%T", value)),
			)
		}
	}
	return nil
}

// GetAttributes 使用默认引擎读取表单所有属性的当前值
func GetAttributes(form Form) (map[string]any, error) {
	return Default().GetAttributes(form)
}

// GetAttributes 读取表单所有属性的当前值，属性名 => 值
func (e *Engine) GetAttributes(form Form) (map[string]any, error) {
	record, err := recordValue(form)
	if err != nil {
		return nil, err
	}
	attrs, err := e.attributes.AttributesOf(record.Type())
	if err != nil {
		return nil, err
	}

	base := form.FormBase()
	values := make(map[string]any, attrs.Len())
	for _, name := range attrs.Names() {
		values[name], _ = attributeValue(base, attrs, record, name)
	}
	return values, nil
}

// attributeValue 读取待验证的属性值及其是否为空
//   - 无法存入字段的原始输入优先于字段值
//   - 未被写入过且为零值的字段视为未设置（如缺失键对应的 int 字段）
func attributeValue(base *BaseForm, attrs *AttributeSet, record reflect.Value, name string) (any, bool) {
	if raw, ok := base.rawInput(name); ok {
		return raw, isEmpty(raw)
	}
	value := attrs.Value(record, name)
	if isEmpty(value) {
		return value, true
	}
	if !base.Assigned(name) && attrs.IsZero(record, name) {
		return value, true
	}
	return value, false
}
