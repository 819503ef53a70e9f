// Package rag 实现查询处理引擎
// 覆盖意图分类、相似度检索、上下文组装、回答缓存，
// 以及按意图路由的工作流状态机和线性问答流水线
package rag

import (
	"context"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/vector"
)

// VectorStore 向量存储协作方
// 评分语义为相似度（越高越相关），可直接与 score_threshold 比较
type VectorStore interface {
	// AddTexts 写入文本与元数据，返回生成的点位 ID
	AddTexts(ctx context.Context, texts []string, metadatas []document.Metadata) ([]string, error)
	// SimilaritySearchWithScore 相似度检索，结果按相关性降序
	SimilaritySearchWithScore(ctx context.Context, queryText string, k int, scoreThreshold float64) ([]vector.SearchHit, error)
	// Count 集合内的点位数量
	Count(ctx context.Context) (uint64, error)
	// CollectionName 集合名
	CollectionName() string
}

// CompletionClient 模型服务协作方
type CompletionClient interface {
	// Complete 单次补全调用
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
	// Model 模型标识
	Model() string
}

// TokenCounter 上下文 Token 统计
type TokenCounter interface {
	CountTokens(text string) int
}
