package validator

import (
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	playground "github.com/go-playground/validator/v10"
)

// ============================================================================
// 验证器库 - 内置验证器的名称注册表
// ============================================================================

// BuiltinFunc 内置验证器函数
// 必须是全函数：任何输入都不能 panic，只返回是否通过
type BuiltinFunc func(value any, options Options) bool

// builtinEntry 注册表条目
type builtinEntry struct {
	fn      BuiltinFunc
	message string
}

// Library 内置验证器库
// 名称表在首次使用时构建一次；之后的注册采用写时复制，读取无锁
type Library struct {
	once  sync.Once
	mu    sync.Mutex // 仅保护写入
	table atomic.Pointer[map[string]builtinEntry]

	// playground 承载委托给 go-playground/validator 的标签验证
	playground *playground.Validate
}

var (
	// defaultLibrary 进程级默认验证器库
	defaultLibrary *Library
	libraryOnce    sync.Once
)

// DefaultLibrary 获取进程级默认验证器库（单例，线程安全）
func DefaultLibrary() *Library {
	libraryOnce.Do(func() {
		defaultLibrary = NewLibrary()
	})
	return defaultLibrary
}

// NewLibrary 创建独立的验证器库
// 适用场景：需要隔离注册的验证器（如单元测试）
func NewLibrary() *Library {
	return &Library{playground: playground.New()}
}

// init 构建默认名称表（只执行一次）
func (l *Library) init() {
	l.once.Do(func() {
		table := make(map[string]builtinEntry, 16)
		for name, e := range l.builtins() {
			table[name] = e
		}
		l.table.Store(&table)
	})
}

// builtins 内置验证器及其默认消息
func (l *Library) builtins() map[string]builtinEntry {
	return map[string]builtinEntry{
		"required": {fn: ValidateRequired, message: "{attribute} is required"},
		"string":   {fn: ValidateString, message: "{attribute} must be a string"},
		"integer":  {fn: ValidateInteger, message: "{attribute} must be an integer"},
		"number":   {fn: ValidateNumber, message: "{attribute} must be a number"},
		"boolean":  {fn: ValidateBoolean, message: "{attribute} must be 1 or 0"},
		"in":       {fn: ValidateIn, message: "{attribute} must be one of {in}"},
		"regex":    {fn: ValidateRegex, message: "{attribute} has an invalid format"},
		"url":      {fn: ValidateURL, message: "{attribute} is not a valid URL"},
		"email":    {fn: ValidateEmail, message: "{attribute} is not a valid email address"},
		"array":    {fn: l.validateArray, message: "{attribute} must be an array"},

		// 委托给 go-playground/validator 的标签
		"alphanum": {fn: l.playgroundTag("alphanum"), message: "{attribute} must contain only letters and digits"},
		"ip":       {fn: l.playgroundTag("ip"), message: "{attribute} is not a valid IP address"},
		"uuid":     {fn: l.playgroundTag("uuid"), message: "{attribute} is not a valid UUID"},
		"numeric":  {fn: l.playgroundTag("numeric"), message: "{attribute} must be numeric"},
	}
}

// Register 注册或覆盖内置验证器
// message 为该验证器的默认失败消息模板（可选）
func (l *Library) Register(name string, fn BuiltinFunc, message ...string) {
	if name == "" || fn == nil {
		return
	}
	l.init()

	e := builtinEntry{fn: fn}
	if len(message) > 0 {
		e.message = message[0]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	old := *l.table.Load()
	next := make(map[string]builtinEntry, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[name] = e
	l.table.Store(&next)
}

// RegisterPlaygroundTag 把 go-playground/validator 的标签注册为内置验证器
// 例如 RegisterPlaygroundTag("mac", "mac")
func (l *Library) RegisterPlaygroundTag(name, tag string, message ...string) {
	l.Register(name, l.playgroundTag(tag), message...)
}

// Lookup 按名称查找验证器
func (l *Library) Lookup(name string) (BuiltinFunc, bool) {
	l.init()
	e, ok := (*l.table.Load())[name]
	return e.fn, ok
}

// Has 验证器是否存在
func (l *Library) Has(name string) bool {
	_, ok := l.Lookup(name)
	return ok
}

// Message 验证器的默认失败消息模板，没有时返回空字符串
func (l *Library) Message(name string) string {
	l.init()
	return (*l.table.Load())[name].message
}

// Names 返回所有验证器名称（已排序）
func (l *Library) Names() []string {
	l.init()
	table := *l.table.Load()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate 按名称执行验证器
// 名称未注册时返回 UnknownValidatorError
func (l *Library) Validate(name string, value any, options Options) (bool, error) {
	fn, ok := l.Lookup(name)
	if !ok {
		return false, &UnknownValidatorError{Name: name}
	}
	return fn(value, options), nil
}

// validateArray 数组验证：值必须是切片或数组，每个元素都通过 validator 选项指定的验证器
// 元素验证器默认为 string；名称在规则编译时已校验存在
func (l *Library) validateArray(value any, options Options) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false
	}

	element := options.String(OptValidator)
	if element == "" {
		element = defaultElementName
	}

	for i := 0; i < rv.Len(); i++ {
		ok, err := l.Validate(element, rv.Index(i).Interface(), options)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// playgroundTag 委托给 go-playground/validator 的单值标签验证
// 只接受字符串值，避免第三方验证函数对非预期类型的处理差异
func (l *Library) playgroundTag(tag string) BuiltinFunc {
	return func(value any, _ Options) bool {
		s, ok := asString(value)
		if !ok {
			return false
		}
		return l.playground.Var(s, tag) == nil
	}
}
