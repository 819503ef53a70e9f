package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
	"github.com/BadLiar37/langchain-service/internal/domain/events"
	"github.com/BadLiar37/langchain-service/internal/domain/query"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/extract"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
)

// IngestResult 一次摄入的结果
type IngestResult struct {
	Filename   string   `json:"filename"`
	ChunkCount int      `json:"chunk_count"`
	ChunkIDs   []string `json:"chunk_ids"`
}

// Service 查询引擎对上层的门面
// 聚合摄入路径（切分 → 向量存储 → 登记）与查询路径（流水线/工作流），
// 同时作为文档文件事件的订阅者驱动自动摄入
type Service struct {
	chunking  *ChunkingService
	pipeline  *QueryPipeline
	workflow  *QueryWorkflow
	store     VectorStore
	records   document.Repository
	registry  *extract.Registry
	eventBus  events.EventBus
	logger    *slog.Logger
}

// NewService 创建查询引擎门面
func NewService(
	chunking *ChunkingService,
	pipeline *QueryPipeline,
	workflow *QueryWorkflow,
	store VectorStore,
	records document.Repository,
	registry *extract.Registry,
	eventBus events.EventBus,
) *Service {
	return &Service{
		chunking: chunking,
		pipeline: pipeline,
		workflow: workflow,
		store:    store,
		records:  records,
		registry: registry,
		eventBus: eventBus,
		logger:   log.NewModuleLogger("rag", "service"),
	}
}

// IngestText 摄入一段文本
// 切分 → 写入向量存储 → 登记文档记录 → 发布索引完成事件
func (s *Service) IngestText(ctx context.Context, text, filename, fileType string) (*IngestResult, error) {
	meta, defaulted := document.NewMetadata(filename, fileType)
	if defaulted {
		s.logger.Warn("Ingest metadata defaulted", "filename", meta.Filename)
	}

	chunks := s.chunking.Split(text, meta)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no content to ingest", query.ErrValidation)
	}

	texts := make([]string, len(chunks))
	metadatas := make([]document.Metadata, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
		metadatas[i] = chunk.Metadata
	}

	ids, err := s.store.AddTexts(ctx, texts, metadatas)
	if err != nil {
		return nil, err
	}

	record := &document.Record{
		ID:            meta.Filename,
		Filename:      meta.Filename,
		FileType:      meta.FileType,
		ChunkCount:    len(chunks),
		ContentLength: len(text),
		IngestedAt:    time.Now(),
	}
	if err := s.records.SaveRecord(ctx, record); err != nil {
		// 向量已写入成功，登记失败只记录不回滚
		s.logger.Error("Failed to save document record", "filename", meta.Filename, "error", err)
	}

	s.eventBus.Publish(&events.DocumentIndexedEvent{
		EventType:  events.DocumentIndexed,
		Filename:   meta.Filename,
		ChunkCount: len(chunks),
		EventTime:  time.Now(),
	})

	s.logger.Info("Text ingested", "filename", meta.Filename, "chunks", len(chunks))

	return &IngestResult{
		Filename:   meta.Filename,
		ChunkCount: len(chunks),
		ChunkIDs:   ids,
	}, nil
}

// IngestFile 摄入一个文件
// 提取纯文本后走文本摄入路径，不支持的格式在触达引擎前被拒绝
func (s *Service) IngestFile(ctx context.Context, path string) (*IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	filename := filepath.Base(path)
	text, err := s.registry.ExtractText(filename, data)
	if err != nil {
		return nil, err
	}

	return s.IngestText(ctx, text, filename, extract.FileType(filename))
}

// Ask 线性流水线问答
func (s *Service) Ask(ctx context.Context, q *query.Query) *query.AnswerResult {
	return s.pipeline.Ask(ctx, q)
}

// AskClassified 意图分类工作流问答
func (s *Service) AskClassified(ctx context.Context, q *query.Query) *query.AnswerResult {
	return s.workflow.Process(ctx, q)
}

// CollectionStats 向量集合统计，纯委托
func (s *Service) CollectionStats(ctx context.Context) (*query.CollectionStats, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &query.CollectionStats{
		CollectionName: s.store.CollectionName(),
		DocumentCount:  int(count),
	}, nil
}

// ListDocuments 分页列出已摄入的文档记录
func (s *Service) ListDocuments(ctx context.Context, offset, limit int) ([]*document.Record, int, error) {
	records, err := s.records.ListRecords(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.records.CountRecords(ctx)
	if err != nil {
		return nil, 0, err
	}
	if records == nil {
		records = []*document.Record{}
	}
	return records, total, nil
}

// DatabaseStats 文档登记统计
func (s *Service) DatabaseStats(ctx context.Context) (*document.Stats, error) {
	return s.records.GetStats(ctx)
}

// HandleEvent 实现事件处理器，驱动投放目录的自动摄入
// 摄入失败发布索引失败事件，错误不向总线传播
func (s *Service) HandleEvent(event events.Event) error {
	fileEvent, ok := event.(*events.DocumentFileEvent)
	if !ok {
		return nil
	}

	s.logger.Info("Auto-ingesting document file", "path", fileEvent.FilePath)

	if _, err := s.IngestFile(context.Background(), fileEvent.FilePath); err != nil {
		s.logger.Error("Auto-ingest failed", "path", fileEvent.FilePath, "error", err)
		s.eventBus.Publish(&events.DocumentIndexedEvent{
			EventType: events.DocumentIndexFailed,
			Filename:  filepath.Base(fileEvent.FilePath),
			Error:     err.Error(),
			EventTime: time.Now(),
		})
	}

	return nil
}
