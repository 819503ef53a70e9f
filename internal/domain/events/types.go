// Package events 定义领域事件类型和接口
// 用于系统内部的事件驱动通信
package events

import "time"

// EventType 事件类型标识
type EventType string

// 文档文件相关事件类型
const (
	// DocumentFileCreated 文档文件创建事件
	DocumentFileCreated EventType = "document.file.created"
	// DocumentFileModified 文档文件修改事件
	DocumentFileModified EventType = "document.file.modified"
)

// 摄入相关事件类型
const (
	// DocumentIndexed 文档摄入完成事件
	DocumentIndexed EventType = "document.indexed"
	// DocumentIndexFailed 文档摄入失败事件
	DocumentIndexFailed EventType = "document.index.failed"
)

// Event 领域事件接口
// 所有事件类型都必须实现此接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Timestamp 返回事件发生时间
	Timestamp() time.Time
}
