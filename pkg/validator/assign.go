package validator

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ============================================================================
// 属性赋值 - 把不可信输入写入表单字段
// ============================================================================

// assignValue 把 value 写入 field
// 规则：
//   - nil 写入零值
//   - 可直接赋值的类型直接赋值（any 字段保留原始类型）
//   - 指针字段分配新值后递归赋值
//   - 基础类型之间按语义转换（"31" => int 31），有损转换拒绝
//   - 切片逐元素严格赋值，不做元素类型转换
func assignValue(field reflect.Value, value any) bool {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return true
	}

	v := reflect.ValueOf(value)
	ft := field.Type()
	if v.Type().AssignableTo(ft) {
		field.Set(v)
		return true
	}

	switch ft.Kind() {
	case reflect.Pointer:
		p := reflect.New(ft.Elem())
		if !assignValue(p.Elem(), value) {
			return false
		}
		field.Set(p)
		return true

	case reflect.String:
		s, err := cast.ToStringE(value)
		if err != nil {
			return false
		}
		field.SetString(s)
		return true

	case reflect.Bool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return false
		}
		field.SetBool(b)
		return true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := toInt64(value)
		if !ok || field.OverflowInt(n) {
			return false
		}
		field.SetInt(n)
		return true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, ok := toInt64(value)
		if !ok || n < 0 || field.OverflowUint(uint64(n)) {
			return false
		}
		field.SetUint(uint64(n))
		return true

	case reflect.Float32, reflect.Float64:
		f, ok := toFloat64(value)
		if !ok || field.OverflowFloat(f) {
			return false
		}
		field.SetFloat(f)
		return true

	case reflect.Slice:
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return false
		}
		out := reflect.MakeSlice(ft, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			elem := v.Index(i)
			if elem.Kind() == reflect.Interface && !elem.IsNil() {
				elem = elem.Elem()
			}
			if !elem.IsValid() || !elem.Type().AssignableTo(ft.Elem()) {
				return false
			}
			out.Index(i).Set(elem)
		}
		field.Set(out)
		return true
	}

	if v.Type().ConvertibleTo(ft) && v.Kind() == ft.Kind() {
		field.Set(v.Convert(ft))
		return true
	}
	return false
}

// toInt64 十进制整数解析，小数部分非零时拒绝
func toInt64(value any) (int64, bool) {
	switch val := value.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return n, err == nil
	case float32, float64:
		f := cast.ToFloat64(val)
		if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		return int64(f), true
	}
	n, err := cast.ToInt64E(value)
	return n, err == nil
}

// toFloat64 数值或数值字符串转为 float64
func toFloat64(value any) (float64, bool) {
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	f, err := cast.ToFloat64E(value)
	return f, err == nil
}
