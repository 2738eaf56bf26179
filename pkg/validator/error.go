package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ============================================================================
// 配置错误 - 开发者错误，不是用户输入错误，直接返回给调用方
// ============================================================================

var (
	// ErrInvalidRule 规则声明格式错误或引用了不存在的属性
	ErrInvalidRule = errors.New("invalid rule")
	// ErrTypeIntrospection 类型无法解析（不是结构体或结构体指针）
	ErrTypeIntrospection = errors.New("type introspection failed")
	// ErrUnknownValidator 验证器名称没有对应的实现
	ErrUnknownValidator = errors.New("unknown validator")
)

// InvalidRuleError 规则声明错误
type InvalidRuleError struct {
	// Type 声明规则的表单类型
	Type reflect.Type
	// Index 规则在 Rules() 中的位置
	Index int
	// Attribute 出错的属性名（可选）
	Attribute string
	// Reason 结构性缺陷描述
	Reason string
}

func (e *InvalidRuleError) Error() string {
	var b strings.Builder
	b.WriteString("invalid rule")
	if e.Type != nil {
		fmt.Fprintf(&b, " #%d of %s", e.Index, e.Type)
	}
	if e.Attribute != "" {
		fmt.Fprintf(&b, " (attribute %q)", e.Attribute)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *InvalidRuleError) Unwrap() error { return ErrInvalidRule }

// TypeIntrospectionError 类型解析错误
type TypeIntrospectionError struct {
	Type   reflect.Type
	Reason string
}

func (e *TypeIntrospectionError) Error() string {
	return fmt.Sprintf("cannot introspect type %v: %s", e.Type, e.Reason)
}

func (e *TypeIntrospectionError) Unwrap() error { return ErrTypeIntrospection }

// UnknownValidatorError 未注册的验证器
type UnknownValidatorError struct {
	Name string
}

func (e *UnknownValidatorError) Error() string {
	return fmt.Sprintf("validator %q does not exist", e.Name)
}

func (e *UnknownValidatorError) Unwrap() error { return ErrUnknownValidator }

// ============================================================================
// ErrorSet - 验证失败信息集合
// ============================================================================

// ErrorSet 属性 => 错误消息的有序映射
// 插入顺序即属性的验证顺序，每个属性最多保留一条消息
type ErrorSet struct {
	order    []string
	messages map[string]string
}

// Add 记录属性的错误消息
// 同一属性重复添加时覆盖消息，但保留其原有位置
func (s *ErrorSet) Add(attribute, message string) {
	if s.messages == nil {
		s.messages = make(map[string]string, 4)
	}
	if _, ok := s.messages[attribute]; !ok {
		s.order = append(s.order, attribute)
	}
	s.messages[attribute] = message
}

// Get 返回属性的错误消息
func (s *ErrorSet) Get(attribute string) string {
	return s.messages[attribute]
}

// Has 检查属性是否已有错误
func (s *ErrorSet) Has(attribute string) bool {
	_, ok := s.messages[attribute]
	return ok
}

// Len 错误数量
func (s *ErrorSet) Len() int {
	return len(s.order)
}

// IsEmpty 是否没有错误
func (s *ErrorSet) IsEmpty() bool {
	return len(s.order) == 0
}

// First 返回第一条错误消息
func (s *ErrorSet) First() (string, bool) {
	if len(s.order) == 0 {
		return "", false
	}
	return s.messages[s.order[0]], true
}

// Attributes 按记录顺序返回出错的属性名
func (s *ErrorSet) Attributes() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Map 返回属性 => 消息的副本
func (s *ErrorSet) Map() map[string]string {
	out := make(map[string]string, len(s.messages))
	for k, v := range s.messages {
		out[k] = v
	}
	return out
}

// Reset 清空所有错误，保留底层容量
func (s *ErrorSet) Reset() {
	s.order = s.order[:0]
	for k := range s.messages {
		delete(s.messages, k)
	}
}

// String 返回友好的错误信息
func (s *ErrorSet) String() string {
	if len(s.order) == 0 {
		return "validation passed: no errors"
	}

	b := acquireBuilder()
	defer releaseBuilder(b)

	b.Grow(len(s.order) * errorMessageEstimateLen)
	for i, attr := range s.order {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(attr)
		b.WriteString(": ")
		b.WriteString(s.messages[attr])
	}
	return b.String()
}

// MarshalJSON 按记录顺序输出 JSON 对象
func (s ErrorSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.messages[attr])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
