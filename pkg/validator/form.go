package validator

// ============================================================================
// 表单接口 - 记录类型需要实现的声明面
// ============================================================================

// Form 可验证的表单（记录）
// 表单是嵌入 BaseForm 的结构体指针，导出字段即为属性
//
// 示例：
//
//	type SignupForm struct {
//	    validator.BaseForm
//	    Name  any `form:"name"`
//	    Age   any `form:"age"`
//	    Email any `form:"email"`
//	}
//
//	func (f *SignupForm) Rules() []validator.Rule {
//	    return []validator.Rule{
//	        validator.NewRule("string", "name").Min(6).Max(30),
//	        validator.NewRule("email", "email").Required(),
//	    }
//	}
type Form interface {
	// Rules 返回有序的规则声明，每个类型只在首次验证时读取一次
	Rules() []Rule
	// FormBase 返回表单的状态部分，由嵌入的 BaseForm 提供
	FormBase() *BaseForm
}

// Labeler 属性显示名称（可选）
// 未声明的属性使用首字母大写的属性名
type Labeler interface {
	AttributeLabels() map[string]string
}

// MessageProvider 覆盖表单类型的默认消息模板（可选）
// 空字段表示沿用引擎默认值
type MessageProvider interface {
	DefaultMessages() Messages
}

// CustomValidatorProvider 表单自定义验证器（可选）
// 键遵循 validateXxx 命名约定（也可直接写 xxx），同名时优先于内置验证器
//
// 示例：
//
//	func (f *SignupForm) CustomValidators() map[string]validator.CustomFunc {
//	    return map[string]validator.CustomFunc{
//	        "validateName": validator.Custom((*SignupForm).validateName),
//	    }
//	}
type CustomValidatorProvider interface {
	CustomValidators() map[string]CustomFunc
}

// Messages 消息模板集合
type Messages struct {
	// Error 验证器失败消息
	Error string
	// Required 必填失败消息
	Required string
	// Range 同时有 min/max 时的范围失败消息
	Range string
	// RangeMin 仅有 min 时的范围失败消息
	RangeMin string
	// RangeMax 仅有 max 时的范围失败消息
	RangeMax string
}

// DefaultMessageTemplates 引擎内置的默认消息模板
func DefaultMessageTemplates() Messages {
	return Messages{
		Error:    "{attribute} is invalid",
		Required: "{attribute} is required",
		Range:    "{attribute} must be between {min} and {max}",
		RangeMin: "{attribute} must be at least {min}",
		RangeMax: "{attribute} must be at most {max}",
	}
}

// merge 用 o 中的非空模板覆盖 m
func (m Messages) merge(o Messages) Messages {
	if o.Error != "" {
		m.Error = o.Error
	}
	if o.Required != "" {
		m.Required = o.Required
	}
	if o.Range != "" {
		m.Range = o.Range
	}
	if o.RangeMin != "" {
		m.RangeMin = o.RangeMin
	}
	if o.RangeMax != "" {
		m.RangeMax = o.RangeMax
	}
	return m
}

// ============================================================================
// BaseForm - 表单实例状态
// ============================================================================

// BaseForm 嵌入到表单结构体中，持有实例级状态：
// 默认必填设置、自动去空格设置和错误集合
// BaseForm 不含导出字段，因此不会被识别为属性
type BaseForm struct {
	defaultRequired bool
	// autoTrim nil 表示跟随引擎配置
	autoTrim *bool
	errors   ErrorSet
	// validated 是否已经执行过验证
	validated bool

	// assigned Instantiate 写入过的属性
	assigned map[string]struct{}
	// raw 无法存入字段类型的原始输入，验证时代替字段值
	raw map[string]any
}

// FormBase 实现 Form 接口
func (b *BaseForm) FormBase() *BaseForm {
	return b
}

// SetDefaultRequired 设置未显式声明 isRequired 的规则是否必填
func (b *BaseForm) SetDefaultRequired(required bool) {
	b.defaultRequired = required
}

// DefaultRequired 未显式声明 isRequired 的规则是否必填
func (b *BaseForm) DefaultRequired() bool {
	return b.defaultRequired
}

// SetAutoTrim 设置赋值时是否去掉字符串前后空格
func (b *BaseForm) SetAutoTrim(enabled bool) {
	b.autoTrim = &enabled
}

// autoTrimOr 返回表单的自动去空格设置，未设置时使用 fallback
func (b *BaseForm) autoTrimOr(fallback bool) bool {
	if b.autoTrim == nil {
		return fallback
	}
	return *b.autoTrim
}

// AddError 记录属性错误，供自定义验证器使用
func (b *BaseForm) AddError(attribute, message string) {
	b.errors.Add(attribute, message)
}

// Errors 返回最近一次验证的错误集合
func (b *BaseForm) Errors() *ErrorSet {
	return &b.errors
}

// FirstError 返回最近一次验证的第一条错误消息
func (b *BaseForm) FirstError() (string, bool) {
	return b.errors.First()
}

// Validated 是否已经验证过
func (b *BaseForm) Validated() bool {
	return b.validated
}

// reset 开始新一轮验证
func (b *BaseForm) reset() {
	b.errors.Reset()
	b.validated = true
}

// resetInput 开始新一轮赋值，清空上一次的输入记录
func (b *BaseForm) resetInput() {
	clear(b.assigned)
	clear(b.raw)
}

// markAssigned 记录属性的输入；stored 为 false 时保存原始输入
func (b *BaseForm) markAssigned(attribute string, raw any, stored bool) {
	if b.assigned == nil {
		b.assigned = make(map[string]struct{}, 8)
	}
	b.assigned[attribute] = struct{}{}
	if stored {
		delete(b.raw, attribute)
		return
	}
	if b.raw == nil {
		b.raw = make(map[string]any, 2)
	}
	b.raw[attribute] = raw
}

// Assigned 属性是否由 Instantiate 写入过
func (b *BaseForm) Assigned(attribute string) bool {
	_, ok := b.assigned[attribute]
	return ok
}

// rawInput 返回无法存入字段的原始输入
func (b *BaseForm) rawInput(attribute string) (any, bool) {
	v, ok := b.raw[attribute]
	return v, ok
}
