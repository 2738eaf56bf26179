package validator

import (
	"testing"
)

// BenchmarkValidate_TypeCaching 类型缓存命中后的验证性能
func BenchmarkValidate_TypeCaching(b *testing.B) {
	e := New()
	form, err := NewFormWith[demoForm](e, demoData(), false)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Validate(form)
	}
}

// BenchmarkValidate_Failure 验证失败时的错误记录性能
func BenchmarkValidate_Failure(b *testing.B) {
	e := New(WithMode(ModeAccumulate))
	form, err := NewFormWith[demoForm](e, map[string]any{"name": "abc", "age": "x"}, true)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Validate(form)
	}
}

// BenchmarkInstantiate 表单构造性能
func BenchmarkInstantiate(b *testing.B) {
	e := New()
	data := demoData()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = NewFormWith[demoForm](e, data, false)
	}
}

// BenchmarkValidate_Parallel 并发验证性能
func BenchmarkValidate_Parallel(b *testing.B) {
	e := New()

	b.RunParallel(func(pb *testing.PB) {
		form, err := NewFormWith[demoForm](e, demoData(), false)
		if err != nil {
			b.Error(err)
			return
		}
		for pb.Next() {
			_, _ = e.Validate(form)
		}
	})
}

// BenchmarkMessageFormatter_Format 消息模板渲染性能
func BenchmarkMessageFormatter_Format(b *testing.B) {
	f := NewMessageFormatter()
	opts := Options{OptMin: 18, OptMax: 100}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = f.Format("{attribute} must be between {min} and {max}", "Age", opts)
	}
}
