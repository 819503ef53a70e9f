package query

import "fmt"

// Type 查询意图分类
type Type string

// 查询意图常量
const (
	// TypeGreeting 问候类查询，不走检索
	TypeGreeting Type = "greeting"
	// TypeSearch 文档列表类查询，只检索不生成
	TypeSearch Type = "search"
	// TypeQuestion 问答类查询，检索后生成
	TypeQuestion Type = "question"
)

// 参数边界
const (
	// MinTopK TopK 下界
	MinTopK = 1
	// MaxTopK TopK 上界
	MaxTopK = 10
	// MinTemperature 采样温度下界
	MinTemperature = 0.0
	// MaxTemperature 采样温度上界
	MaxTemperature = 2.0
	// MinScoreThreshold 相关性阈值下界
	MinScoreThreshold = 0.0
	// MaxScoreThreshold 相关性阈值上界
	MaxScoreThreshold = 1.0
)

// 参数默认值
const (
	// DefaultTopK 默认检索片段数
	DefaultTopK = 4
	// DefaultTemperature 默认采样温度
	DefaultTemperature = 0.7
	// DefaultScoreThreshold 默认相关性阈值
	DefaultScoreThreshold = 0.0
)

// Query 一次查询请求，按请求创建，创建后不可变
type Query struct {
	// Text 查询文本
	Text string
	// TopK 最多检索的片段数，取值 [1,10]
	TopK int
	// Temperature 生成采样温度，取值 [0.0,2.0]
	Temperature float64
	// ScoreThreshold 相关性评分下限，取值 [0.0,1.0]
	ScoreThreshold float64
}

// NewQuery 创建查询并校验参数边界
// 越界参数在此被拒绝，不会进入查询引擎
func NewQuery(text string, topK int, temperature, scoreThreshold float64) (*Query, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: question text is empty", ErrValidation)
	}
	if topK < MinTopK || topK > MaxTopK {
		return nil, fmt.Errorf("%w: top_k must be in [%d,%d], got %d",
			ErrValidation, MinTopK, MaxTopK, topK)
	}
	if temperature < MinTemperature || temperature > MaxTemperature {
		return nil, fmt.Errorf("%w: temperature must be in [%.1f,%.1f], got %g",
			ErrValidation, MinTemperature, MaxTemperature, temperature)
	}
	if scoreThreshold < MinScoreThreshold || scoreThreshold > MaxScoreThreshold {
		return nil, fmt.Errorf("%w: score_threshold must be in [%.1f,%.1f], got %g",
			ErrValidation, MinScoreThreshold, MaxScoreThreshold, scoreThreshold)
	}
	return &Query{
		Text:           text,
		TopK:           topK,
		Temperature:    temperature,
		ScoreThreshold: scoreThreshold,
	}, nil
}

// Source 检索来源的投影（不含原始内容）
type Source struct {
	Filename       string   `json:"filename"`
	FileType       string   `json:"file_type"`
	ChunkID        int      `json:"chunk_id"`
	RelevanceScore *float64 `json:"relevance_score"`
}

// Metrics 查询处理耗时与规模指标
type Metrics struct {
	// SearchTime 检索耗时（秒）
	SearchTime float64 `json:"search_time"`
	// GenerationTime 生成耗时（秒）
	GenerationTime float64 `json:"generation_time"`
	// TotalTime 总耗时（秒）
	TotalTime float64 `json:"total_time"`
	// DocumentsFound 检索命中的片段数
	DocumentsFound int `json:"documents_found"`
	// ContextLength 上下文长度（字符数），无上下文时省略
	ContextLength int `json:"context_length,omitempty"`
	// ContextTokens 上下文 Token 估算，无上下文时省略
	ContextTokens int `json:"context_tokens,omitempty"`
	// QueryType 工作流路径使用的意图分类
	QueryType Type `json:"query_type,omitempty"`
}

// AnswerResult 统一结果信封
// 引擎边界内的任何失败都编码在 Error 字段与降级的 Answer 中，从不向外抛出
type AnswerResult struct {
	Answer      string   `json:"answer"`
	Question    string   `json:"question"`
	QueryType   Type     `json:"query_type,omitempty"`
	Sources     []Source `json:"sources"`
	ContextUsed bool     `json:"context_used"`
	Model       string   `json:"model,omitempty"`
	Metrics     *Metrics `json:"metrics,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Generation 一次生成调用的结果，同时作为缓存条目的值
type Generation struct {
	// Answer 生成的回答（已去除首尾空白）
	Answer string
	// Model 生成所用模型标识
	Model string
	// Temperature 生成时使用的采样温度
	Temperature float64
}

// CollectionStats 向量集合统计
type CollectionStats struct {
	CollectionName string `json:"collection_name"`
	DocumentCount  int    `json:"document_count"`
}
