package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BadLiar37/langchain-service/internal/domain/query"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
)

// noRelevantAnswer 空检索结果时的固定回答
const noRelevantAnswer = "I couldn't find any relevant information in the database to answer your question."

// QueryPipeline 线性问答流水线
// 不做意图分类，总是先检索再生成；空检索短路返回固定回答且不调用模型服务
type QueryPipeline struct {
	retrieval *RetrievalService
	gateway   *ModelGateway
	tokens    TokenCounter
	logger    *slog.Logger
}

// NewQueryPipeline 创建线性流水线
func NewQueryPipeline(retrieval *RetrievalService, gateway *ModelGateway, tokens TokenCounter) *QueryPipeline {
	return &QueryPipeline{
		retrieval: retrieval,
		gateway:   gateway,
		tokens:    tokens,
		logger:    log.NewModuleLogger("rag", "pipeline"),
	}
}

// Ask 执行一次问答
// 总是返回结果信封：内部失败编码在 Error 字段和降级回答中，
// 并带上失败前已采集到的耗时指标
func (p *QueryPipeline) Ask(ctx context.Context, q *query.Query) *query.AnswerResult {
	start := time.Now()

	p.logger.Info("Processing question",
		"question", truncate(q.Text, 100),
		"top_k", q.TopK,
		"temperature", q.Temperature,
	)

	searchStart := time.Now()
	chunks, err := p.retrieval.Search(ctx, q.Text, q.TopK, q.ScoreThreshold)
	searchTime := time.Since(searchStart).Seconds()

	if err != nil {
		p.logger.Error("Pipeline search failed", "error", err)
		return p.degraded(q, err, &query.Metrics{
			SearchTime: searchTime,
			TotalTime:  time.Since(start).Seconds(),
		})
	}

	p.logger.Info("Search completed",
		"search_time", fmt.Sprintf("%.2fs", searchTime),
		"found", len(chunks),
	)

	if len(chunks) == 0 {
		return &query.AnswerResult{
			Answer:      noRelevantAnswer,
			Question:    q.Text,
			Sources:     []query.Source{},
			ContextUsed: false,
			Metrics: &query.Metrics{
				SearchTime:     searchTime,
				GenerationTime: 0,
				TotalTime:      time.Since(start).Seconds(),
				DocumentsFound: 0,
			},
		}
	}

	contextText := p.retrieval.FormatContext(chunks)
	sources := p.retrieval.Sources(chunks)

	p.logger.Info("Context formatted",
		"context_length", len(contextText),
		"sources", len(sources),
	)

	generationStart := time.Now()
	generation, err := p.gateway.GenerateAnswer(ctx, q.Text, contextText, q.Temperature)
	generationTime := time.Since(generationStart).Seconds()

	if err != nil {
		p.logger.Error("Pipeline generation failed", "error", err)
		return p.degraded(q, err, &query.Metrics{
			SearchTime:     searchTime,
			GenerationTime: generationTime,
			TotalTime:      time.Since(start).Seconds(),
		})
	}

	totalTime := time.Since(start).Seconds()
	p.logger.Info("Question processed", "total_time", fmt.Sprintf("%.2fs", totalTime))

	return &query.AnswerResult{
		Answer:      generation.Answer,
		Question:    q.Text,
		Sources:     sources,
		ContextUsed: true,
		Model:       generation.Model,
		Metrics: &query.Metrics{
			SearchTime:     searchTime,
			GenerationTime: generationTime,
			TotalTime:      totalTime,
			DocumentsFound: len(chunks),
			ContextLength:  len(contextText),
			ContextTokens:  p.tokens.CountTokens(contextText),
		},
	}
}

// degraded 构造降级信封
func (p *QueryPipeline) degraded(q *query.Query, err error, metrics *query.Metrics) *query.AnswerResult {
	return &query.AnswerResult{
		Answer:      fmt.Sprintf("I encountered an error while processing your question: %s", err.Error()),
		Question:    q.Text,
		Sources:     []query.Source{},
		ContextUsed: false,
		Error:       err.Error(),
		Metrics:     metrics,
	}
}
