package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
	"github.com/BadLiar37/langchain-service/internal/domain/query"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
)

// noRelevantInformation 空检索结果的上下文哨兵文本
const noRelevantInformation = "No relevant information found."

// contextSeparator 上下文中片段之间的分隔线
const contextSeparator = "\n---\n"

// RetrievalService 相似度检索服务
// 向向量存储发起检索、附加相关性评分、组装上下文并提取来源清单
type RetrievalService struct {
	store  VectorStore
	logger *slog.Logger
}

// NewRetrievalService 创建检索服务
func NewRetrievalService(store VectorStore) *RetrievalService {
	return &RetrievalService{
		store:  store,
		logger: log.NewModuleLogger("rag", "retrieval"),
	}
}

// Search 相似度检索
// 结果已按相关性降序、过滤到 score ≥ scoreThreshold 且不超过 k 条；
// 存储不可用时返回错误，引擎不做本地重试
func (s *RetrievalService) Search(ctx context.Context, queryText string, k int, scoreThreshold float64) ([]document.Chunk, error) {
	s.logger.Info("Searching", "query", queryText, "top_k", k, "score_threshold", scoreThreshold)

	hits, err := s.store.SimilaritySearchWithScore(ctx, queryText, k, scoreThreshold)
	if err != nil {
		return nil, err
	}

	chunks := make([]document.Chunk, 0, len(hits))
	for _, hit := range hits {
		chunks = append(chunks, document.Chunk{
			Content:  hit.Content,
			Metadata: hit.Metadata.WithScore(hit.Score),
		})
		s.logger.Debug("Found chunk",
			"filename", hit.Metadata.Filename,
			"score", fmt.Sprintf("%.3f", hit.Score),
		)
	}

	s.logger.Info("Search completed", "found", len(chunks))
	return chunks, nil
}

// FormatContext 将检索结果渲染为单块上下文文本
// 空结果返回固定哨兵文本；来源编号从 1 起，与 Sources 的顺序一致
func (s *RetrievalService) FormatContext(chunks []document.Chunk) string {
	if len(chunks) == 0 {
		return noRelevantInformation
	}

	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		header := fmt.Sprintf("[Source %d: %s", i+1, chunk.Metadata.Filename)
		if score := chunk.Metadata.RelevanceScore; score != nil && *score != 0 {
			header += fmt.Sprintf(" - relevance: %.2f", *score)
		}
		header += "]"

		parts = append(parts, fmt.Sprintf("%s\n%s\n", header, chunk.Content))
	}

	return strings.Join(parts, contextSeparator)
}

// Sources 提取来源清单
// 只投影元数据，从不携带片段原文
func (s *RetrievalService) Sources(chunks []document.Chunk) []query.Source {
	sources := make([]query.Source, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, query.Source{
			Filename:       chunk.Metadata.Filename,
			FileType:       chunk.Metadata.FileType,
			ChunkID:        chunk.Metadata.ChunkIndex,
			RelevanceScore: chunk.Metadata.RelevanceScore,
		})
	}
	return sources
}
