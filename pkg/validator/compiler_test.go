package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ruleForm 规则来自实例字段，每个用例使用独立引擎
type ruleForm struct {
	BaseForm
	FirstName any `form:"firstName"`
	Age       any `form:"age"`
	Tags      any `form:"tags"`

	rules []Rule
}

func (f *ruleForm) Rules() []Rule { return f.rules }

type messageForm struct {
	ruleForm
}

func (f *messageForm) DefaultMessages() Messages {
	return Messages{Error: "{attribute} 格式错误", RangeMax: "{attribute} 不能超过 {max}"}
}

func TestRuleCompiler_Expand(t *testing.T) {
	form := &ruleForm{rules: []Rule{
		NewRule("integer", "age", "firstName", "age"),
		NewRule("required", "tags"),
		Tuple([]string{"firstName"}, "string", Options{OptMin: 2, OptIsRequired: false}),
	}}

	rules, err := New().CompiledRules(form)
	require.NoError(t, err)
	require.Len(t, rules, 4)

	assert.Equal(t, "age", rules[0].Attribute)
	assert.Equal(t, "firstName", rules[1].Attribute)
	assert.Equal(t, "tags", rules[2].Attribute)
	assert.Equal(t, "firstName", rules[3].Attribute)

	// 同一声明展开的规则共享选项
	assert.Equal(t, rules[0].Options, rules[1].Options)
	assert.Equal(t, "FirstName must be an integer", rules[1].ErrorMessage)

	assert.Equal(t, RequiredDefault, rules[0].Required)
	assert.Equal(t, RequiredYes, rules[2].Required)
	assert.Equal(t, RequiredNo, rules[3].Required)
	assert.False(t, rules[0].HasRange)
	assert.True(t, rules[3].HasRange)
	assert.Equal(t, "FirstName must be at least 2", rules[3].RangeMessage)
}

func TestRuleCompiler_Messages(t *testing.T) {
	t.Run("rule options win", func(t *testing.T) {
		form := &ruleForm{rules: []Rule{
			NewRule("integer", "age").Min(18).Max(100).
				Message("{attribute} 必须是整数").
				RequiredMessage("请填写{attribute}").
				RangeMessage("{attribute} 应在 {min}~{max} 之间"),
		}}
		rules, err := New().CompiledRules(form)
		require.NoError(t, err)

		assert.Equal(t, "Age 必须是整数", rules[0].ErrorMessage)
		assert.Equal(t, "请填写Age", rules[0].RequiredMessage)
		assert.Equal(t, "Age 应在 18~100 之间", rules[0].RangeMessage)
	})

	t.Run("range template by bounds", func(t *testing.T) {
		form := &ruleForm{rules: []Rule{
			NewRule("integer", "age").Min(18).Max(100),
			NewRule("string", "firstName").Max(30),
		}}
		rules, err := New().CompiledRules(form)
		require.NoError(t, err)

		assert.Equal(t, "Age must be between 18 and 100", rules[0].RangeMessage)
		assert.Equal(t, "FirstName must be at most 30", rules[1].RangeMessage)
	})

	t.Run("engine messages override library defaults", func(t *testing.T) {
		e := New(WithMessages(Messages{Error: "{attribute} 无效", Required: "{attribute} 必填"}))
		form := &ruleForm{rules: []Rule{NewRule("integer", "age")}}
		rules, err := e.CompiledRules(form)
		require.NoError(t, err)

		assert.Equal(t, "Age 无效", rules[0].ErrorMessage)
		assert.Equal(t, "Age 必填", rules[0].RequiredMessage)
	})

	t.Run("form messages override engine", func(t *testing.T) {
		e := New(WithMessages(Messages{Error: "{attribute} 无效"}))
		form := &messageForm{ruleForm{rules: []Rule{NewRule("integer", "age").Max(99)}}}
		rules, err := e.CompiledRules(form)
		require.NoError(t, err)

		assert.Equal(t, "Age 格式错误", rules[0].ErrorMessage)
		assert.Equal(t, "Age is required", rules[0].RequiredMessage)
		assert.Equal(t, "Age 不能超过 99", rules[0].RangeMessage)
	})

	t.Run("generic message for custom validators", func(t *testing.T) {
		form := &emailOverrideForm{}
		rules, err := New().CompiledRules(form)
		require.NoError(t, err)
		assert.Equal(t, "Email is not a valid email address", rules[0].ErrorMessage)
	})
}

func TestRuleCompiler_InvalidDeclarations(t *testing.T) {
	tests := []struct {
		name     string
		rules    []Rule
		sentinel error
	}{
		{"tuple with one element", []Rule{Tuple("age")}, ErrInvalidRule},
		{"tuple with bad attribute operand", []Rule{Tuple(42, "integer")}, ErrInvalidRule},
		{"tuple with bad validator operand", []Rule{Tuple("age", 1)}, ErrInvalidRule},
		{"tuple with bad options", []Rule{Tuple("age", "integer", "min=1")}, ErrInvalidRule},
		{"no attributes", []Rule{NewRule("integer")}, ErrInvalidRule},
		{"empty attribute", []Rule{NewRule("integer", "")}, ErrInvalidRule},
		{"empty validator", []Rule{NewRule("", "age")}, ErrInvalidRule},
		{"missing attribute", []Rule{NewRule("integer", "height")}, ErrInvalidRule},
		{"unknown validator", []Rule{NewRule("phone", "age")}, ErrUnknownValidator},
		{"unknown element validator", []Rule{NewRule("array", "tags").Element("phone")}, ErrUnknownValidator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().CompiledRules(&ruleForm{rules: tt.rules})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}

	t.Run("missing attribute is reported", func(t *testing.T) {
		form := &ruleForm{rules: []Rule{
			NewRule("integer", "age"),
			NewRule("string", "firstName", "lastName"),
		}}
		_, err := New().CompiledRules(form)

		var ruleErr *InvalidRuleError
		require.True(t, errors.As(err, &ruleErr))
		assert.Equal(t, 1, ruleErr.Index)
		assert.Equal(t, "lastName", ruleErr.Attribute)
	})
}

func TestRequirednessOf(t *testing.T) {
	tests := []struct {
		validator string
		options   Options
		want      Requiredness
	}{
		{"string", Options{}, RequiredDefault},
		{"required", Options{}, RequiredYes},
		{"required", Options{OptIsRequired: false}, RequiredNo},
		{"string", Options{OptIsRequired: true}, RequiredYes},
		{"string", Options{optRequiredAlias: "true"}, RequiredYes},
		{"string", Options{OptIsRequired: 0}, RequiredNo},
	}
	for _, tt := range tests {
		if got := requirednessOf(tt.validator, tt.options); got != tt.want {
			t.Errorf("requirednessOf(%q, %v) = %v, want %v", tt.validator, tt.options, got, tt.want)
		}
	}

	r := &CompiledRule{Required: RequiredDefault}
	if !r.IsRequired(true) || r.IsRequired(false) {
		t.Error("default requiredness should follow the instance setting")
	}
}
