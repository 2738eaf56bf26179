package validator

import (
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Mode 验证模式
type Mode int

const (
	// ModeHalt 遇到第一条失败规则即停止（默认）
	ModeHalt Mode = iota
	// ModeAccumulate 继续验证其余属性，每个属性最多一条错误
	ModeAccumulate
)

// String 模式名称
func (m Mode) String() string {
	if m == ModeAccumulate {
		return "accumulate"
	}
	return "halt"
}

// ParseMode 解析模式名称，未知名称返回 ModeHalt 和 false
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(s) {
	case "", "halt":
		return ModeHalt, true
	case "accumulate":
		return ModeAccumulate, true
	}
	return ModeHalt, false
}

// Engine 验证引擎
// 设计原则：
//   - 单例模式：Default() 返回进程级引擎，减少重复解析
//   - 工厂模式：New() 创建独立引擎（独立的类型缓存，适用于测试和隔离配置）
//
// 特性：
//   - 属性、编译规则、自定义验证器均按类型缓存，首次使用时计算一次
//   - 必填门控：非必填且为空的属性直接通过
//   - 自定义验证器优先于同名内置验证器
//   - 默认在第一条失败规则处停止，错误信息确定
type Engine struct {
	library    *Library
	attributes *AttributeRegistry
	customs    *CustomValidatorResolver
	compiler   *RuleCompiler
	formatter  *MessageFormatter

	mode     Mode
	autoTrim bool
	messages Messages
	logger   *zap.Logger
}

// Option 引擎配置项
type Option func(*Engine)

// WithLogger 设置日志（默认不输出）
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLibrary 使用指定的验证器库（默认使用进程级 DefaultLibrary）
func WithLibrary(l *Library) Option {
	return func(e *Engine) {
		if l != nil {
			e.library = l
		}
	}
}

// WithMode 设置验证模式
func WithMode(m Mode) Option {
	return func(e *Engine) { e.mode = m }
}

// WithAutoTrim 设置赋值时是否默认去掉字符串前后空格（默认开启）
// 表单可通过 BaseForm.SetAutoTrim 单独覆盖
func WithAutoTrim(enabled bool) Option {
	return func(e *Engine) { e.autoTrim = enabled }
}

// WithMessages 覆盖引擎级默认消息模板，空字段保持默认
func WithMessages(m Messages) Option {
	return func(e *Engine) { e.messages = e.messages.merge(m) }
}

var (
	// defaultEngine 默认引擎实例，全局单例
	defaultEngine *Engine
	// engineOnce 确保默认引擎只初始化一次（线程安全）
	engineOnce sync.Once
)

// Default 获取默认引擎（单例模式）
// 线程安全，可在多个 goroutine 中并发调用
func Default() *Engine {
	engineOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// New 创建新的验证引擎
func New(opts ...Option) *Engine {
	e := &Engine{
		autoTrim: true,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.library == nil {
		e.library = DefaultLibrary()
	}

	e.formatter = NewMessageFormatter()
	e.attributes = NewAttributeRegistry(e.logger)
	e.customs = NewCustomValidatorResolver(e.logger)
	e.compiler = &RuleCompiler{
		attributes: e.attributes,
		customs:    e.customs,
		library:    e.library,
		formatter:  e.formatter,
		messages:   e.messages,
		logger:     e.logger,
	}
	return e
}

// Validate 使用默认引擎验证表单
func Validate(form Form) (bool, error) {
	return Default().Validate(form)
}

// Validate 验证表单
//
// 验证流程（按编译规则的声明顺序）：
//  1. 读取属性当前值（无法存入字段的原始输入优先；未写入过的零值字段视为空）
//  2. 非必填且为空：通过，继续下一条规则
//  3. 必填且为空：记录必填消息，停止
//  4. 存在同名自定义验证器：调用它，失败即停止（错误由自定义验证器记录）
//  5. 否则调用内置验证器，失败记录错误消息并停止；
//     通过后若有 min/max，执行范围检查，失败记录范围消息并停止
//
// 返回的 error 只表示配置错误（规则声明错误、类型无法解析、验证器不存在），
// 数据不合法通过 false 和表单的错误集合表达
func (e *Engine) Validate(form Form) (bool, error) {
	record, err := recordValue(form)
	if err != nil {
		return false, err
	}

	rules, err := e.compiler.CompiledRulesOf(form)
	if err != nil {
		return false, err
	}
	attrs, err := e.attributes.AttributesOf(record.Type())
	if err != nil {
		return false, err
	}

	base := form.FormBase()
	base.reset()
	defaultRequired := base.DefaultRequired()

	var failed map[string]struct{}
	for _, rule := range rules {
		if _, skip := failed[rule.Attribute]; skip {
			continue
		}

		value, empty := attributeValue(base, attrs, record, rule.Attribute)
		ok, err := e.check(form, base, rule, value, empty, defaultRequired)
		if err != nil {
			return false, err
		}
		if ok {
			continue
		}

		e.logger.Debug("validation failed",
			zap.Stringer("type", record.Type()),
			zap.String("attribute", rule.Attribute),
			zap.String("validator", rule.Validator),
		)
		if e.mode != ModeAccumulate {
			return false, nil
		}
		if failed == nil {
			failed = make(map[string]struct{})
		}
		failed[rule.Attribute] = struct{}{}
	}

	return base.errors.IsEmpty(), nil
}

// check 执行单条编译规则，失败时错误已记录到表单
func (e *Engine) check(form Form, base *BaseForm, rule *CompiledRule, value any, empty, defaultRequired bool) (bool, error) {
	required := rule.IsRequired(defaultRequired)

	// 必填门控
	if empty && !required {
		return true, nil
	}
	if empty {
		base.AddError(rule.Attribute, rule.RequiredMessage)
		return false, nil
	}

	// 自定义验证器优先
	if custom, ok := e.customs.CustomValidatorFor(form, rule.Validator); ok {
		before := base.errors.Len()
		if custom(form, rule.Attribute, rule.Options) {
			return true, nil
		}
		// 自定义验证器未记录任何错误时，使用规则的错误消息兜底
		if base.errors.Len() == before {
			base.AddError(rule.Attribute, rule.ErrorMessage)
		}
		return false, nil
	}

	name := validatorKey(rule.Validator)
	ok, err := e.library.Validate(name, value, rule.Options)
	if err != nil {
		return false, err
	}
	if !ok {
		base.AddError(rule.Attribute, rule.ErrorMessage)
		return false, nil
	}

	if rule.HasRange && !CheckMaxMin(name, value, rule.Options) {
		base.AddError(rule.Attribute, rule.RangeMessage)
		return false, nil
	}
	return true, nil
}

// CompiledRules 返回表单类型的编译规则
func (e *Engine) CompiledRules(form Form) ([]*CompiledRule, error) {
	return e.compiler.CompiledRulesOf(form)
}

// Attributes 返回表单类型的属性集合
func (e *Engine) Attributes(form Form) (*AttributeSet, error) {
	return e.attributes.AttributesOf(formType(form))
}

// Library 返回引擎使用的验证器库
func (e *Engine) Library() *Library {
	return e.library
}

// Mode 返回验证模式
func (e *Engine) Mode() Mode {
	return e.mode
}

// Stats 类型缓存统计
type Stats struct {
	// Introspections 属性解析次数
	Introspections int64
	// Compilations 规则编译次数
	Compilations int64
	// Resolutions 自定义验证器解析次数
	Resolutions int64
}

// Stats 获取类型缓存统计信息，用于监控和测试缓存命中
func (e *Engine) Stats() Stats {
	return Stats{
		Introspections: e.attributes.Introspections(),
		Compilations:   e.compiler.Compilations(),
		Resolutions:    e.customs.Resolutions(),
	}
}

// recordValue 表单的结构体值
func recordValue(form Form) (reflect.Value, error) {
	if form == nil {
		return reflect.Value{}, &TypeIntrospectionError{Reason: "nil form"}
	}
	rv := reflect.ValueOf(form)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, &TypeIntrospectionError{Type: rv.Type(), Reason: "nil form"}
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, &TypeIntrospectionError{Type: rv.Type(), Reason: "not a struct"}
	}
	return rv, nil
}
