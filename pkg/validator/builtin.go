package validator

import (
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/spf13/cast"
)

// 内置正则
var (
	patternInteger = regexp.MustCompile(`^[+-]?\d+$`)
	patternNumber  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	patternURL     = regexp.MustCompile(`(?i)^https?://(([A-Z0-9][A-Z0-9_-]*)(\.[A-Z0-9][A-Z0-9_-]*)+)(?::\d{1,5})?(?:$|[?/#])`)

	// patternEmailEnvelope 拆分可选的显示名与 <local@domain>
	patternEmailEnvelope = regexp.MustCompile(`(?i)^(?P<name>(?:"?([^"]*)"?\s)?)(?:\s+)?(?:(?P<open><?)((?P<local>.+)@(?P<domain>[^>]+))(?P<close>>?))$`)
	// patternEmail 严格的地址语法
	patternEmail = regexp.MustCompile("^[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+(?:\\.[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+)*@(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?\\.)+[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?$")

	emailLocalIndex  = patternEmailEnvelope.SubexpIndex("local")
	emailDomainIndex = patternEmailEnvelope.SubexpIndex("domain")
)

const (
	maxEmailLocalLen   = 64
	maxEmailAddressLen = 254
)

// regexCache 规则 pattern => 编译结果（编译失败缓存为 nil）
var regexCache sync.Map

// isEmpty 未设置或空字符串
func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}

// asString 字符串或字符串底层类型的值
func asString(value any) (string, bool) {
	if s, ok := value.(string); ok {
		return s, true
	}
	if value == nil {
		return "", false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// ValidateRequired 值既不是未设置也不是空字符串
func ValidateRequired(value any, _ Options) bool {
	return !isEmpty(value)
}

// ValidateString 值是字符串
func ValidateString(value any, _ Options) bool {
	_, ok := asString(value)
	return ok
}

// ValidateInteger 值是整数，或匹配 ^[+-]?\d+$ 的字符串
// 小数部分为零的浮点数（如 JSON 解码得到的 31.0）视为整数
func ValidateInteger(value any, _ Options) bool {
	if s, ok := asString(value); ok {
		return patternInteger.MatchString(s)
	}
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	}
	return false
}

// ValidateNumber 值是数值，或数值字符串（整数、小数、科学计数法）
func ValidateNumber(value any, _ Options) bool {
	if s, ok := asString(value); ok {
		return patternInteger.MatchString(s) || patternNumber.MatchString(s)
	}
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return false
}

// ValidateBoolean 值恰好是 1、0、"1" 或 "0"（Go 的 bool 也接受）
func ValidateBoolean(value any, _ Options) bool {
	if s, ok := asString(value); ok {
		return s == "1" || s == "0"
	}
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0 || rv.Int() == 1
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0 || rv.Uint() == 1
	}
	return false
}

// ValidateIn 值属于 in 选项的集合
// 宽松比较："1" 与 1 视为相等
func ValidateIn(value any, options Options) bool {
	for _, candidate := range options.List(OptIn) {
		if looseEqual(value, candidate) {
			return true
		}
	}
	return false
}

func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.DeepEqual(a, b) {
		return true
	}
	if !isScalar(a) || !isScalar(b) {
		return false
	}
	sa, errA := cast.ToStringE(a)
	sb, errB := cast.ToStringE(b)
	return errA == nil && errB == nil && sa == sb
}

func isScalar(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// ValidateRegex 值（非字符串时先转为字符串）匹配 pattern 选项
// 支持 /.../flags 形式的定界写法
func ValidateRegex(value any, options Options) bool {
	pattern := options.String(OptPattern)
	if pattern == "" {
		return false
	}
	re := compilePattern(pattern)
	if re == nil {
		return false
	}

	s, ok := asString(value)
	if !ok {
		var err error
		if s, err = cast.ToStringE(value); err != nil {
			return false
		}
	}
	return re.MatchString(s)
}

// compilePattern 编译并缓存正则，失败时返回 nil
func compilePattern(pattern string) *regexp.Regexp {
	if cached, ok := regexCache.Load(pattern); ok {
		return cached.(*regexp.Regexp)
	}
	re, err := regexp.Compile(unwrapDelimited(pattern))
	if err != nil {
		re = nil
	}
	actual, _ := regexCache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp)
}

// unwrapDelimited 把 /body/flags 转为 RE2 写法
// i、m、s 转为内联标志，其余标志忽略
func unwrapDelimited(pattern string) string {
	if len(pattern) < 2 || pattern[0] != '/' {
		return pattern
	}
	end := strings.LastIndexByte(pattern, '/')
	if end <= 0 {
		return pattern
	}

	body, flags := pattern[1:end], pattern[end+1:]
	var inline strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			inline.WriteRune(f)
		}
	}
	if inline.Len() == 0 {
		return body
	}
	return "(?" + inline.String() + ")" + body
}

// ValidateURL 值是 http(s)://host[:port][/path] 形式的字符串
func ValidateURL(value any, _ Options) bool {
	s, ok := asString(value)
	return ok && patternURL.MatchString(s)
}

// ValidateEmail 邮箱地址验证
// 本地部分不超过 64 字节，完整地址不超过 254 字节，并满足严格的地址语法
func ValidateEmail(value any, _ Options) bool {
	s, ok := asString(value)
	if !ok {
		return false
	}

	m := patternEmailEnvelope.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	local, domain := m[emailLocalIndex], m[emailDomainIndex]
	if len(local) > maxEmailLocalLen {
		return false
	}
	if len(local)+1+len(domain) > maxEmailAddressLen {
		return false
	}
	return patternEmail.MatchString(s)
}
