package validator

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ============================================================================
// 自定义验证器 - 表单类型声明的业务验证，优先于同名内置验证器
// ============================================================================

// validatorPrefix 验证器命名约定前缀
const validatorPrefix = "validate"

// CustomFunc 自定义验证器
// 失败时由验证器自己通过 form.FormBase().AddError 记录错误消息，再返回 false
type CustomFunc func(form Form, attribute string, options Options) bool

// Custom 把类型化的方法表达式适配为 CustomFunc
//
// 示例：
//
//	func (f *SignupForm) validateName(attribute string, options validator.Options) bool {
//	    if f.Name == "Roers.cn" {
//	        f.AddError(attribute, "name Roers.cn already exists")
//	        return false
//	    }
//	    return true
//	}
//
//	validator.Custom((*SignupForm).validateName)
func Custom[T Form](fn func(form T, attribute string, options Options) bool) CustomFunc {
	return func(form Form, attribute string, options Options) bool {
		typed, ok := form.(T)
		if !ok {
			return false
		}
		return fn(typed, attribute, options)
	}
}

// validatorKey 规范化验证器名：去掉 validate 前缀并把首字母小写
// validateEmail 与 email 得到相同的键，因此自定义的 validateEmail 会覆盖内置 email
func validatorKey(name string) string {
	if len(name) > len(validatorPrefix) && strings.HasPrefix(name, validatorPrefix) {
		return lowerFirst(name[len(validatorPrefix):])
	}
	return name
}

// CustomValidatorResolver 自定义验证器解析器
// 每个类型只读取一次 CustomValidators()，结果缓存
type CustomValidatorResolver struct {
	// cache key: reflect.Type, value: *customEntry
	cache sync.Map
	// resolutions 实际读取 CustomValidators() 的次数
	resolutions atomic.Int64
	logger      *zap.Logger
}

type customEntry struct {
	once       sync.Once
	validators map[string]CustomFunc
}

// NewCustomValidatorResolver 创建自定义验证器解析器
func NewCustomValidatorResolver(logger *zap.Logger) *CustomValidatorResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomValidatorResolver{logger: logger}
}

// CustomValidatorFor 查找表单类型上名为 name 的自定义验证器
func (r *CustomValidatorResolver) CustomValidatorFor(form Form, name string) (CustomFunc, bool) {
	validators := r.validatorsOf(form)
	if len(validators) == 0 {
		return nil, false
	}
	fn, ok := validators[validatorKey(name)]
	return fn, ok
}

// Resolutions 返回实际解析过的类型次数
func (r *CustomValidatorResolver) Resolutions() int64 {
	return r.resolutions.Load()
}

func (r *CustomValidatorResolver) validatorsOf(form Form) map[string]CustomFunc {
	t := formType(form)
	actual, _ := r.cache.LoadOrStore(t, &customEntry{})
	e := actual.(*customEntry)
	e.once.Do(func() {
		e.validators = r.resolve(form, t)
	})
	return e.validators
}

// resolve 收集表单声明的自定义验证器
// 入口名 validate 本身和空名称被忽略
func (r *CustomValidatorResolver) resolve(form Form, t reflect.Type) map[string]CustomFunc {
	r.resolutions.Add(1)

	provider, ok := form.(CustomValidatorProvider)
	if !ok {
		return nil
	}

	declared := provider.CustomValidators()
	validators := make(map[string]CustomFunc, len(declared))
	for name, fn := range declared {
		key := validatorKey(name)
		if fn == nil || key == "" || key == validatorPrefix {
			r.logger.Warn("custom validator ignored",
				zap.Stringer("type", t),
				zap.String("name", name),
			)
			continue
		}
		validators[key] = fn
	}

	r.logger.Debug("custom validators resolved",
		zap.Stringer("type", t),
		zap.Int("count", len(validators)),
	)
	return validators
}

// formType 表单的结构体类型，作为所有按类型缓存的键
func formType(form Form) reflect.Type {
	t := reflect.TypeOf(form)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
