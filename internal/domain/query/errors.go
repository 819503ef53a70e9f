package query

import "errors"

// 查询引擎错误分类
// 工作流/流水线节点内部的失败不使用这些错误向外传播，
// 而是转换为结果信封中的 Error 字段（降级而非中断）
var (
	// ErrValidation 参数越界或输入形态不支持，在边界处拒绝
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable 向量存储不可达或未初始化，引擎不重试
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrGenerationUnavailable 模型服务不可达或超时，引擎不重试
	ErrGenerationUnavailable = errors.New("generation service unavailable")
)
