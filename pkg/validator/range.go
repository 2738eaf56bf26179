package validator

import (
	"reflect"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// ============================================================================
// 范围检查 - 基础验证器通过后，对 min/max 的二次检查（闭区间）
// ============================================================================

// CheckStringLengthValid 字符串长度（按字符计）在 [min, max] 内
// 缺失的边界不做限制
func CheckStringLengthValid(value any, options Options) bool {
	s, ok := asString(value)
	if !ok {
		var err error
		if s, err = cast.ToStringE(value); err != nil {
			return false
		}
	}
	return inBounds(float64(utf8.RuneCountInString(s)), options)
}

// CheckNumberSizeValid 数值大小在 [min, max] 内
func CheckNumberSizeValid(value any, options Options) bool {
	f, ok := toFloat64(value)
	if !ok {
		return false
	}
	return inBounds(f, options)
}

// CheckCountValid 集合元素个数在 [min, max] 内
func CheckCountValid(value any, options Options) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return inBounds(float64(rv.Len()), options)
	}
	return false
}

// CheckMaxMin 按验证器类型选择范围检查方式
//   - integer、number：数值大小
//   - array：元素个数
//   - 其余：字符串长度
func CheckMaxMin(validatorName string, value any, options Options) bool {
	switch validatorName {
	case "integer", "number", "numeric":
		return CheckNumberSizeValid(value, options)
	case "array":
		return CheckCountValid(value, options)
	default:
		return CheckStringLengthValid(value, options)
	}
}

func inBounds(n float64, options Options) bool {
	if lo, ok := options.Float(OptMin); ok && n < lo {
		return false
	}
	if hi, ok := options.Float(OptMax); ok && n > hi {
		return false
	}
	return true
}
