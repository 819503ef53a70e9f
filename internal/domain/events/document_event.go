package events

import "time"

// DocumentFileEvent 文档文件变更事件
// 当监听目录下的文档文件被创建或修改时触发
type DocumentFileEvent struct {
	// EventType 事件类型（created/modified）
	EventType EventType
	// FilePath 文件完整路径
	FilePath string
	// ModTime 文件最后修改时间
	ModTime time.Time
	// FileSize 文件大小（字节）
	FileSize int64
	// EventTime 事件发生时间
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *DocumentFileEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *DocumentFileEvent) Timestamp() time.Time {
	return e.EventTime
}

// DocumentIndexedEvent 文档摄入结果事件
// 摄入流程结束后发布，供通知推送等订阅者消费
type DocumentIndexedEvent struct {
	// EventType 事件类型（indexed/index.failed）
	EventType EventType
	// Filename 文档文件名
	Filename string
	// ChunkCount 摄入产生的片段数（失败时为 0）
	ChunkCount int
	// Error 摄入失败的错误描述（成功时为空）
	Error string
	// EventTime 事件发生时间
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *DocumentIndexedEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *DocumentIndexedEvent) Timestamp() time.Time {
	return e.EventTime
}
