package validator

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// ============================================================================
// 属性注册表 - 每个类型只解析一次导出字段，进程内缓存
// ============================================================================

// 属性名标签
const (
	tagForm = "form"
	tagJSON = "json"
)

// attributeField 单个属性的元数据
type attributeField struct {
	name  string
	index []int
	typ   reflect.Type
}

// AttributeSet 类型的属性集合，首次解析后不可变
type AttributeSet struct {
	typ    reflect.Type
	fields []attributeField
	byName map[string]int
}

// Has 属性是否存在
func (s *AttributeSet) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Names 按字段声明顺序返回属性名
func (s *AttributeSet) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}

// Len 属性数量
func (s *AttributeSet) Len() int {
	return len(s.fields)
}

// Type 属性所属的结构体类型
func (s *AttributeSet) Type() reflect.Type {
	return s.typ
}

// Value 读取属性当前值
// 指针字段解引用，nil 指针与 nil 接口都返回 nil（未设置）
func (s *AttributeSet) Value(record reflect.Value, name string) any {
	i, ok := s.byName[name]
	if !ok {
		return nil
	}
	field := record.FieldByIndex(s.fields[i].index)
	for field.Kind() == reflect.Pointer || field.Kind() == reflect.Interface {
		if field.IsNil() {
			return nil
		}
		if field.Kind() == reflect.Interface {
			return field.Interface()
		}
		field = field.Elem()
	}
	return field.Interface()
}

// IsZero 属性字段是否为其类型的零值
func (s *AttributeSet) IsZero(record reflect.Value, name string) bool {
	i, ok := s.byName[name]
	if !ok {
		return true
	}
	return record.FieldByIndex(s.fields[i].index).IsZero()
}

// Set 给属性赋值，值无法存入字段类型时返回 false
func (s *AttributeSet) Set(record reflect.Value, name string, value any) bool {
	i, ok := s.byName[name]
	if !ok {
		return false
	}
	field := record.FieldByIndex(s.fields[i].index)
	if !field.CanSet() {
		return false
	}
	return assignValue(field, value)
}

// AttributeRegistry 属性注册表
// 线程安全：每个类型的条目通过 sync.Once 只计算一次，之后无锁读取
type AttributeRegistry struct {
	// cache key: reflect.Type（结构体类型）, value: *attributeEntry
	cache sync.Map
	// introspections 实际执行解析的次数（缓存未命中次数）
	introspections atomic.Int64
	logger         *zap.Logger
}

type attributeEntry struct {
	once sync.Once
	set  *AttributeSet
	err  error
}

// NewAttributeRegistry 创建属性注册表
func NewAttributeRegistry(logger *zap.Logger) *AttributeRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttributeRegistry{logger: logger}
}

// AttributesOf 返回类型的属性集合
// 参数可以是结构体类型或结构体指针类型，两者共享同一缓存条目
func (r *AttributeRegistry) AttributesOf(t reflect.Type) (*AttributeSet, error) {
	if t == nil {
		return nil, &TypeIntrospectionError{Reason: "nil type"}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	// 热路径：已缓存
	if cached, ok := r.cache.Load(t); ok {
		e := cached.(*attributeEntry)
		e.once.Do(func() { e.set, e.err = r.introspect(t) })
		return e.set, e.err
	}

	// 冷路径：LoadOrStore 保证并发首用时只有一个条目
	actual, _ := r.cache.LoadOrStore(t, &attributeEntry{})
	e := actual.(*attributeEntry)
	e.once.Do(func() { e.set, e.err = r.introspect(t) })
	return e.set, e.err
}

// Introspections 返回实际解析过的类型次数
func (r *AttributeRegistry) Introspections() int64 {
	return r.introspections.Load()
}

// introspect 解析结构体的导出字段（包括嵌入结构体提升的字段）
func (r *AttributeRegistry) introspect(t reflect.Type) (*AttributeSet, error) {
	r.introspections.Add(1)

	if t.Kind() != reflect.Struct {
		return nil, &TypeIntrospectionError{Type: t, Reason: "not a struct"}
	}

	set := &AttributeSet{
		typ:    t,
		byName: make(map[string]int),
	}

	for _, sf := range reflect.VisibleFields(t) {
		// 嵌入字段本身不是属性，其导出字段已被 VisibleFields 展开
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		if throughPointer(t, sf.Index) {
			continue
		}

		name, skip := attributeName(sf)
		if skip {
			continue
		}
		if _, dup := set.byName[name]; dup {
			return nil, &TypeIntrospectionError{Type: t, Reason: "duplicate attribute name " + name}
		}

		set.byName[name] = len(set.fields)
		set.fields = append(set.fields, attributeField{
			name:  name,
			index: sf.Index,
			typ:   sf.Type,
		})
	}

	r.logger.Debug("attributes introspected",
		zap.Stringer("type", t),
		zap.Strings("attributes", set.Names()),
	)
	return set, nil
}

// throughPointer 字段路径是否经过嵌入的指针结构体
// 这类字段在嵌入指针为 nil 时无法访问，不作为属性
func throughPointer(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		t = f.Type
	}
	return false
}

// attributeName 属性名：form 标签 > json 标签 > 首字母小写的字段名
func attributeName(sf reflect.StructField) (string, bool) {
	for _, key := range []string{tagForm, tagJSON} {
		tag, ok := sf.Tag.Lookup(key)
		if !ok {
			continue
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}
	return lowerFirst(sf.Name), false
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
