// Package vector 提供基于 Qdrant 的向量存储访问
// 引擎只通过相似度检索接口使用向量存储，不关心索引内部结构
package vector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
	"github.com/BadLiar37/langchain-service/internal/domain/query"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/config"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/embedding"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
)

// SearchHit 一次相似度检索的命中
type SearchHit struct {
	// Content 片段内容
	Content string
	// Metadata 片段元数据（不含评分）
	Metadata document.Metadata
	// Score 相似度评分，越高越相关
	// 集合使用余弦相似度，阈值比较方向与评分方向一致
	Score float64
}

// Store Qdrant 向量存储
// 文本在写入与查询时由 Embedding 客户端向量化
type Store struct {
	client     *qdrant.Client
	embedder   *embedding.Client
	collection string
	vectorSize uint64
	logger     *slog.Logger
}

// NewStore 创建向量存储
// 连接失败不在此处报错：首次操作时按 ErrStoreUnavailable 上报
func NewStore(cfg *config.QdrantConfig, embedder *embedding.Client) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Store{
		client:     client,
		embedder:   embedder,
		collection: cfg.Collection,
		vectorSize: cfg.VectorSize,
		logger:     log.NewModuleLogger("vector", "qdrant_store"),
	}, nil
}

// CollectionName 返回集合名
func (s *Store) CollectionName() string {
	return s.collection
}

// EnsureCollection 确保集合存在
// 集合使用余弦相似度，评分越高越相关
func (s *Store) EnsureCollection(ctx context.Context) error {
	existing, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to list collections: %v", query.ErrStoreUnavailable, err)
	}

	for _, name := range existing {
		if name == s.collection {
			s.logger.Info("Collection already exists", "collection", s.collection)
			return nil
		}
	}

	s.logger.Info("Creating collection",
		"collection", s.collection,
		"vector_size", s.vectorSize,
	)

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     s.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create collection: %v", query.ErrStoreUnavailable, err)
	}

	return nil
}

// AddTexts 批量写入文本
// 返回生成的片段 ID 列表，顺序与输入一致
func (s *Store) AddTexts(ctx context.Context, texts []string, metadatas []document.Metadata) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) != len(metadatas) {
		return nil, fmt.Errorf("texts and metadatas length mismatch: %d != %d", len(texts), len(metadatas))
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}

	ids := make([]string, len(texts))
	points := make([]*qdrant.PointStruct, len(texts))
	for i, text := range texts {
		ids[i] = uuid.New().String()
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(ids[i]),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(buildPayload(text, metadatas[i])),
		}
	}

	_, err = s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to upsert points: %v", query.ErrStoreUnavailable, err)
	}

	s.logger.Info("Added texts to collection",
		"collection", s.collection,
		"count", len(points),
	)

	return ids, nil
}

// SimilaritySearchWithScore 相似度检索
// 返回按评分降序排列的命中，已过滤 score < scoreThreshold，最多 k 条
func (s *Store) SimilaritySearchWithScore(ctx context.Context, queryText string, k int, scoreThreshold float64) ([]SearchHit, error) {
	queryVector, err := s.embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	limit := uint64(k)
	threshold := float32(scoreThreshold)
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          &limit,
		ScoreThreshold: &threshold,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query failed: %v", query.ErrStoreUnavailable, err)
	}

	hits := make([]SearchHit, 0, len(resp))
	for _, point := range resp {
		hit, ok := hitFromPoint(point)
		if !ok {
			s.logger.Warn("Skipping point without payload", "score", point.GetScore())
			continue
		}
		hits = append(hits, hit)
	}

	s.logger.Debug("Similarity search completed",
		"collection", s.collection,
		"hits", len(hits),
	)

	return hits, nil
}

// Count 集合内的片段数
func (s *Store) Count(ctx context.Context) (uint64, error) {
	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: s.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: count failed: %v", query.ErrStoreUnavailable, err)
	}
	return count, nil
}

// Close 关闭与 Qdrant 的连接
func (s *Store) Close() error {
	return s.client.Close()
}
