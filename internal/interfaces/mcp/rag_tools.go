package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BadLiar37/langchain-service/internal/domain/query"
)

// AskDocumentsInput 文档问答工具输入
type AskDocumentsInput struct {
	Question       string   `json:"question" jsonschema:"The question to answer (required)"`
	TopK           *int     `json:"top_k,omitempty" jsonschema:"Maximum number of retrieved chunks, 1-10, defaults to 4"`
	Temperature    *float64 `json:"temperature,omitempty" jsonschema:"Sampling temperature, 0.0-2.0, defaults to 0.7"`
	ScoreThreshold *float64 `json:"score_threshold,omitempty" jsonschema:"Minimum relevance score, 0.0-1.0, defaults to 0.0"`
}

// AskDocumentsOutput 文档问答工具输出
type AskDocumentsOutput struct {
	Answer      string         `json:"answer" jsonschema:"Generated answer grounded in the retrieved passages"`
	Sources     []query.Source `json:"sources" jsonschema:"Provenance list of the retrieved chunks"`
	ContextUsed bool           `json:"context_used" jsonschema:"Whether retrieved context backed the answer"`
	Error       string         `json:"error,omitempty" jsonschema:"Degradation reason when the answer is a fallback"`
}

// askDocumentsTool 文档问答工具实现
func (s *MCPServer) askDocumentsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AskDocumentsInput,
) (*mcp.CallToolResult, AskDocumentsOutput, error) {
	output := AskDocumentsOutput{Sources: []query.Source{}}

	if input.Question == "" {
		return nil, output, fmt.Errorf("question is required")
	}

	topK := query.DefaultTopK
	if input.TopK != nil {
		topK = *input.TopK
	}
	temperature := query.DefaultTemperature
	if input.Temperature != nil {
		temperature = *input.Temperature
	}
	threshold := query.DefaultScoreThreshold
	if input.ScoreThreshold != nil {
		threshold = *input.ScoreThreshold
	}

	q, err := query.NewQuery(input.Question, topK, temperature, threshold)
	if err != nil {
		return nil, output, err
	}

	result := s.service.Ask(ctx, q)

	output.Answer = result.Answer
	output.Sources = result.Sources
	output.ContextUsed = result.ContextUsed
	output.Error = result.Error

	return nil, output, nil
}

// SearchDocumentsInput 文档检索工具输入
type SearchDocumentsInput struct {
	Query string `json:"query" jsonschema:"Natural language search query (required)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results, 1-10, defaults to 4"`
}

// SearchDocumentsOutput 文档检索工具输出
type SearchDocumentsOutput struct {
	Answer  string `json:"answer" jsonschema:"Human-readable listing of matched documents"`
	Matched int    `json:"matched" jsonschema:"Number of matched documents"`
}

// searchDocumentsTool 文档检索工具实现
// 复用工作流的列表路径，返回带摘录的文档清单
func (s *MCPServer) searchDocumentsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchDocumentsInput,
) (*mcp.CallToolResult, SearchDocumentsOutput, error) {
	var output SearchDocumentsOutput

	if input.Query == "" {
		return nil, output, fmt.Errorf("query is required")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = query.DefaultTopK
	}
	if limit > query.MaxTopK {
		limit = query.MaxTopK
	}

	// 前缀检索关键词，确保走列表路径
	q, err := query.NewQuery("find "+input.Query, limit, query.DefaultTemperature, query.DefaultScoreThreshold)
	if err != nil {
		return nil, output, err
	}

	result := s.service.AskClassified(ctx, q)
	if result.Error != "" {
		return nil, output, fmt.Errorf("search failed: %s", result.Error)
	}

	output.Answer = result.Answer
	output.Matched = len(result.Sources)

	return nil, output, nil
}
