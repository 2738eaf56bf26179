package validator

import (
	"strings"
	"sync"
)

// ============================================================================
// 对象池优化 - 减少消息渲染时的内存分配
// ============================================================================

const (
	// errorMessageEstimateLen 单条错误消息的预估长度，用于预分配
	errorMessageEstimateLen = 48
	// maxPooledBuilderCap 超过此容量的 Builder 不归还，防止池中堆积大对象
	maxPooledBuilderCap = 10 * 1024
)

// stringBuilderPool strings.Builder 对象池
// 用途：消息模板替换、错误集合拼接
var stringBuilderPool = sync.Pool{
	New: func() any {
		return &strings.Builder{}
	},
}

// acquireBuilder 从对象池获取已重置的 strings.Builder
// 使用后必须调用 releaseBuilder 归还
func acquireBuilder() *strings.Builder {
	sb := stringBuilderPool.Get().(*strings.Builder)
	sb.Reset()
	return sb
}

// releaseBuilder 将 strings.Builder 归还到对象池
func releaseBuilder(sb *strings.Builder) {
	if sb == nil || sb.Cap() > maxPooledBuilderCap {
		return
	}
	sb.Reset()
	stringBuilderPool.Put(sb)
}
