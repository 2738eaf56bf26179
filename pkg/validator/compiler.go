package validator

import (
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ============================================================================
// 规则编译器 - 把规则声明展开为按属性的编译规则，按类型缓存
// ============================================================================

// RuleCompiler 规则编译器
// 编译结果与类型绑定，所有实例共享；属性值在验证时实时读取
type RuleCompiler struct {
	attributes *AttributeRegistry
	customs    *CustomValidatorResolver
	library    *Library
	formatter  *MessageFormatter
	// messages 引擎级模板覆盖，空字段表示未覆盖
	messages Messages

	// cache key: reflect.Type, value: *compiledEntry
	cache sync.Map
	// compilations 实际编译的次数
	compilations atomic.Int64
	logger       *zap.Logger
}

type compiledEntry struct {
	once  sync.Once
	rules []*CompiledRule
	err   error
}

// CompiledRulesOf 返回表单类型的编译规则（有序）
// 同一类型只编译一次；编译错误同样被缓存，每次调用都会返回
func (c *RuleCompiler) CompiledRulesOf(form Form) ([]*CompiledRule, error) {
	t := formType(form)
	if t == nil {
		return nil, &TypeIntrospectionError{Reason: "nil form"}
	}

	actual, _ := c.cache.LoadOrStore(t, &compiledEntry{})
	e := actual.(*compiledEntry)
	e.once.Do(func() {
		e.rules, e.err = c.compile(form, t)
		if e.err != nil {
			c.logger.Warn("rule compilation failed", zap.Stringer("type", t), zap.Error(e.err))
		}
	})
	return e.rules, e.err
}

// Compilations 返回实际编译过的类型次数
func (c *RuleCompiler) Compilations() int64 {
	return c.compilations.Load()
}

// compile 编译流程（按声明顺序）：
//  1. 属性操作数规范化为有序去重集合
//  2. 校验验证器名存在（自定义或内置）
//  3. 计算必填性：显式 isRequired > 验证器为 required > 跟随实例默认值
//  4. 计算是否有范围限制（min/max）
//  5. 使用属性显示名渲染三类消息
//  6. 每个属性生成一条编译规则
func (c *RuleCompiler) compile(form Form, t reflect.Type) ([]*CompiledRule, error) {
	c.compilations.Add(1)

	attrs, err := c.attributes.AttributesOf(t)
	if err != nil {
		return nil, err
	}

	var labels map[string]string
	if l, ok := form.(Labeler); ok {
		labels = l.AttributeLabels()
	}

	// 模板覆盖优先级：规则选项 > 表单类型 > 引擎配置 > 内置默认
	overrides := c.messages
	if p, ok := form.(MessageProvider); ok {
		overrides = overrides.merge(p.DefaultMessages())
	}
	templates := DefaultMessageTemplates().merge(overrides)

	declared := form.Rules()
	compiled := make([]*CompiledRule, 0, len(declared))

	for i, rule := range declared {
		if rule.err != "" {
			return nil, &InvalidRuleError{Type: t, Index: i, Reason: rule.err}
		}

		names, reason := normalizeAttributes(rule.Attributes)
		if reason != "" {
			return nil, &InvalidRuleError{Type: t, Index: i, Reason: reason}
		}
		if rule.Validator == "" {
			return nil, &InvalidRuleError{Type: t, Index: i, Reason: "validator name is empty"}
		}
		if err := c.checkValidator(form, rule); err != nil {
			return nil, err
		}

		opts := rule.Options.Clone()
		required := requirednessOf(rule.Validator, opts)
		hasRange := opts.Has(OptMin) || opts.Has(OptMax)

		errorTmpl := opts.String(OptMessage)
		if errorTmpl == "" {
			errorTmpl = c.errorTemplate(rule.Validator, overrides, templates)
		}
		requiredTmpl := opts.String(OptRequireMessage)
		if requiredTmpl == "" {
			requiredTmpl = templates.Required
		}
		rangeTmpl := opts.String(OptMaxMinMessage)
		if rangeTmpl == "" && hasRange {
			rangeTmpl = rangeTemplate(opts, templates)
		}

		for _, name := range names {
			if !attrs.Has(name) {
				return nil, &InvalidRuleError{
					Type: t, Index: i, Attribute: name,
					Reason: "attribute does not exist",
				}
			}

			label := c.formatter.Label(name, labels)
			cr := &CompiledRule{
				Attribute:       name,
				Validator:       rule.Validator,
				Required:        required,
				HasRange:        hasRange,
				Options:         opts,
				ErrorMessage:    c.formatter.Format(errorTmpl, label, opts),
				RequiredMessage: c.formatter.Format(requiredTmpl, label, opts),
			}
			if hasRange {
				cr.RangeMessage = c.formatter.Format(rangeTmpl, label, opts)
			}
			compiled = append(compiled, cr)
		}
	}

	c.logger.Debug("rules compiled",
		zap.Stringer("type", t),
		zap.Int("declared", len(declared)),
		zap.Int("compiled", len(compiled)),
	)
	return compiled, nil
}

// checkValidator 验证器名必须能解析到自定义或内置实现
// array 规则的元素验证器按内置名称分派，同样在此校验
func (c *RuleCompiler) checkValidator(form Form, rule Rule) error {
	key := validatorKey(rule.Validator)
	if _, ok := c.customs.CustomValidatorFor(form, rule.Validator); !ok && !c.library.Has(key) {
		return &UnknownValidatorError{Name: rule.Validator}
	}
	if key == "array" {
		if element := rule.Options.String(OptValidator); element != "" && !c.library.Has(element) {
			return &UnknownValidatorError{Name: element}
		}
	}
	return nil
}

// errorTemplate 验证器失败消息模板
// 表单或引擎显式覆盖的模板优先，其次是验证器自带的默认消息
func (c *RuleCompiler) errorTemplate(validatorName string, overrides, templates Messages) string {
	if overrides.Error != "" {
		return overrides.Error
	}
	if msg := c.library.Message(validatorKey(validatorName)); msg != "" {
		return msg
	}
	return templates.Error
}

// rangeTemplate 按边界选择范围消息模板
func rangeTemplate(opts Options, templates Messages) string {
	hasMin, hasMax := opts.Has(OptMin), opts.Has(OptMax)
	switch {
	case hasMin && !hasMax:
		return templates.RangeMin
	case hasMax && !hasMin:
		return templates.RangeMax
	default:
		return templates.Range
	}
}

// requirednessOf 计算规则的必填性
func requirednessOf(validatorName string, opts Options) Requiredness {
	for _, key := range []string{OptIsRequired, optRequiredAlias} {
		if v, ok := opts.Bool(key); ok {
			if v {
				return RequiredYes
			}
			return RequiredNo
		}
	}
	if validatorKey(validatorName) == "required" {
		return RequiredYes
	}
	return RequiredDefault
}

// normalizeAttributes 规范化属性操作数：非空、去重、保持顺序
func normalizeAttributes(attrs []string) ([]string, string) {
	if len(attrs) == 0 {
		return nil, "rule has no attributes"
	}
	seen := make(map[string]struct{}, len(attrs))
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if a == "" {
			return nil, "attribute name is empty"
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out, ""
}
