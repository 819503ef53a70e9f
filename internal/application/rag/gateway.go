package rag

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BadLiar37/langchain-service/internal/domain/query"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/cache"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
)

// answerPromptTemplate 固定提示词模板
// 指示模型在上下文不足时坦诚拒答而不是编造
const answerPromptTemplate = `You are a helpful AI assistant. Use the following context to answer the user's question.
If you cannot find the answer in the context, say so honestly. Do not make up information.

Context:
{context}

Question: {question}

Answer:`

// ModelGateway 模型网关
// 持有提示词模板，查询/回填回答缓存，按调用方指定的温度调用模型服务
type ModelGateway struct {
	client CompletionClient
	cache  *cache.ResponseCache
	logger *slog.Logger
}

// NewModelGateway 创建模型网关
func NewModelGateway(client CompletionClient, responseCache *cache.ResponseCache) *ModelGateway {
	return &ModelGateway{
		client: client,
		cache:  responseCache,
		logger: log.NewModuleLogger("rag", "gateway"),
	}
}

// GenerateAnswer 生成回答
// 命中缓存时原样返回缓存值（含写入时的温度字段）；
// 未命中时调用模型服务，去除首尾空白后写入缓存再返回。
// 模型服务不可达或超时返回 ErrGenerationUnavailable 包装错误，不做内部重试
func (g *ModelGateway) GenerateAnswer(ctx context.Context, question, contextText string, temperature float64) (query.Generation, error) {
	key := cache.Key(question, contextText, temperature)

	if cached, ok := g.cache.Get(key); ok {
		g.logger.Info("Answer served from cache", "key_prefix", key[:8])
		return cached, nil
	}

	prompt := buildPrompt(contextText, question)

	g.logger.Info("Generating answer", "question", truncate(question, 50))

	text, err := g.client.Complete(ctx, prompt, temperature)
	if err != nil {
		return query.Generation{}, err
	}

	generation := query.Generation{
		Answer:      strings.TrimSpace(text),
		Model:       g.client.Model(),
		Temperature: temperature,
	}
	g.cache.Set(key, generation)

	return generation, nil
}

// buildPrompt 装配提示词
func buildPrompt(contextText, question string) string {
	replacer := strings.NewReplacer(
		"{context}", contextText,
		"{question}", question,
	)
	return replacer.Replace(answerPromptTemplate)
}

// truncate 日志用的文本截断
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
