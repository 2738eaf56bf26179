package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// 规则选项键
const (
	OptMin             = "min"
	OptMax             = "max"
	OptIn              = "in"
	OptPattern         = "pattern"
	OptValidator       = "validator"
	OptMessage         = "message"
	OptRequireMessage  = "requireMessage"
	OptMaxMinMessage   = "maxMinMessage"
	OptIsRequired      = "isRequired"
	optRequiredAlias   = "required"
	defaultElementName = "string"
)

// Options 规则选项，选项名 => 值
// 同时作为消息模板的占位符来源：{min}、{max}、{in} 等
type Options map[string]any

// Has 选项是否存在（值为 nil 视为不存在）
func (o Options) Has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// String 以字符串读取选项
func (o Options) String(key string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// Float 以 float64 读取数值选项
func (o Options) Float(key string) (float64, bool) {
	v, ok := o[key]
	if !ok || v == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool 以 bool 读取选项，第二个返回值表示选项是否存在且可解析
func (o Options) Bool(key string) (bool, bool) {
	v, ok := o[key]
	if !ok || v == nil {
		return false, false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// List 以切片读取集合选项（in）
func (o Options) List(key string) []any {
	v, ok := o[key]
	if !ok || v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Clone 浅拷贝
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// placeholder 选项值转为占位符替换文本
// 集合以逗号拼接，其余使用 cast 转为字符串
func placeholder(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return "", false
	case fmt.Stringer:
		return val.String(), true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = cast.ToString(rv.Index(i).Interface())
		}
		return strings.Join(parts, ","), true
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return s, true
}
