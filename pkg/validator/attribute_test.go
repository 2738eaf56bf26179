package validator

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditFields struct {
	CreatedBy string `json:"created_by"`
}

type deepFields struct {
	Deep string
}

type attrRecord struct {
	BaseForm
	auditFields
	*deepFields

	Name     string   `form:"name"`
	Nick     string   `json:"nick,omitempty"`
	// 无标签：首字母小写
	Age      int
	Score    *float64 `form:"score"`
	Tags     []string `form:"tags"`
	Extra    any      `form:"extra"`
	Hidden   string   `form:"-"`
	internal string
}

type duplicateRecord struct {
	A string `form:"x"`
	B string `json:"x"`
}

func TestAttributeRegistry_Introspect(t *testing.T) {
	r := NewAttributeRegistry(nil)

	set, err := r.AttributesOf(reflect.TypeOf(attrRecord{}))
	require.NoError(t, err)

	assert.Equal(t, []string{"created_by", "name", "nick", "age", "score", "tags", "extra"}, set.Names())
	assert.Equal(t, 7, set.Len())
	assert.True(t, set.Has("nick"))
	assert.False(t, set.Has("Hidden"))
	assert.False(t, set.Has("internal"))
	assert.False(t, set.Has("deep"))
	assert.Equal(t, reflect.TypeOf(attrRecord{}), set.Type())
}

func TestAttributeRegistry_CachedPerType(t *testing.T) {
	r := NewAttributeRegistry(nil)

	var wg sync.WaitGroup
	sets := make([]*AttributeSet, 16)
	for i := range sets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// 指针类型与结构体类型共享同一条目
			typ := reflect.TypeOf(attrRecord{})
			if i%2 == 0 {
				typ = reflect.TypeOf(&attrRecord{})
			}
			sets[i], _ = r.AttributesOf(typ)
		}(i)
	}
	wg.Wait()

	for _, s := range sets {
		assert.Same(t, sets[0], s)
	}
	assert.EqualValues(t, 1, r.Introspections())
}

func TestAttributeRegistry_Errors(t *testing.T) {
	r := NewAttributeRegistry(nil)

	_, err := r.AttributesOf(reflect.TypeOf(42))
	assert.ErrorIs(t, err, ErrTypeIntrospection)

	_, err = r.AttributesOf(reflect.TypeOf(duplicateRecord{}))
	assert.ErrorIs(t, err, ErrTypeIntrospection)

	_, err = r.AttributesOf(nil)
	assert.ErrorIs(t, err, ErrTypeIntrospection)

	// 错误同样被缓存
	_, err = r.AttributesOf(reflect.TypeOf(42))
	assert.ErrorIs(t, err, ErrTypeIntrospection)
	assert.EqualValues(t, 2, r.Introspections())
}

func TestAttributeSet_SetValue(t *testing.T) {
	r := NewAttributeRegistry(nil)
	set, err := r.AttributesOf(reflect.TypeOf(attrRecord{}))
	require.NoError(t, err)

	rec := &attrRecord{}
	rv := reflect.ValueOf(rec).Elem()

	tests := []struct {
		attribute string
		value     any
		ok        bool
		want      any
	}{
		{"name", "zhongdalong", true, "zhongdalong"},
		{"name", 42, true, "42"},
		{"age", "31", true, 31},
		{"age", 31.0, true, 31},
		{"age", 31.5, false, 31},
		{"age", "abc", false, 31},
		{"score", "9.5", true, 9.5},
		{"score", nil, true, nil},
		{"tags", []any{"a", "b"}, true, []string{"a", "b"}},
		{"tags", []any{"a", 1}, false, []string{"a", "b"}},
		{"extra", map[string]any{"k": 1}, true, map[string]any{"k": 1}},
		{"created_by", "admin", true, "admin"},
		{"missing", "x", false, nil},
	}

	for _, tt := range tests {
		ok := set.Set(rv, tt.attribute, tt.value)
		if ok != tt.ok {
			t.Errorf("Set(%q, %#v) = %v, want %v", tt.attribute, tt.value, ok, tt.ok)
			continue
		}
		assert.Equal(t, tt.want, set.Value(rv, tt.attribute), "attribute %s", tt.attribute)
	}

	assert.Equal(t, "admin", rec.CreatedBy)
}
