package document

import (
	"context"
	"time"
)

// Record 已摄入文档的注册记录
// 保存在 SQLite 中，用于文档列表与统计，不包含文档内容
type Record struct {
	// ID 记录主键，以文件名为键（重复摄入同名文档覆盖旧记录）
	ID string
	// Filename 文件名
	Filename string
	// FileType 文件类型（扩展名）
	FileType string
	// ChunkCount 切分产生的片段数
	ChunkCount int
	// ContentLength 原始文本长度（字符数）
	ContentLength int
	// IngestedAt 摄入时间
	IngestedAt time.Time
}

// Stats 文档注册表统计
type Stats struct {
	// DocumentCount 已摄入文档数
	DocumentCount int
	// ChunkCount 已摄入片段总数
	ChunkCount int
}

// Repository 文档注册表仓库接口
type Repository interface {
	// SaveRecord 保存文档记录
	SaveRecord(ctx context.Context, record *Record) error
	// ListRecords 分页列出文档记录（按摄入时间倒序）
	ListRecords(ctx context.Context, offset, limit int) ([]*Record, error)
	// CountRecords 文档记录总数
	CountRecords(ctx context.Context) (int, error)
	// GetStats 统计信息
	GetStats(ctx context.Context) (*Stats, error)
	// DeleteRecord 删除文档记录
	DeleteRecord(ctx context.Context, id string) error
}
