package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BadLiar37/langchain-service/internal/domain/query"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/vector"
)

func newTestWorkflow(store *fakeStore, completion *fakeCompletion) *QueryWorkflow {
	retrieval := NewRetrievalService(store)
	gateway := newTestGateway(completion)
	return NewQueryWorkflow(retrieval, gateway)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want query.Type
	}{
		{"hey there", query.TypeGreeting},
		{"Hello, who are you?", query.TypeGreeting},
		{"find the invoice", query.TypeSearch},
		{"Show me the report", query.TypeSearch},
		{"list all documents", query.TypeSearch},
		{"what is the invoice total", query.TypeQuestion},
		{"why is the sky blue", query.TypeQuestion},
		// 同时含问候与检索关键词时问候优先
		{"hello, find the invoice", query.TypeGreeting},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestQueryWorkflow_GreetingBypassesRetrieval(t *testing.T) {
	store := &fakeStore{}
	completion := &fakeCompletion{answer: "should never be used"}
	workflow := newTestWorkflow(store, completion)

	result := workflow.Process(context.Background(), mustQuery("hey there", 4, 0.7, 0.0))

	assert.Equal(t, query.TypeGreeting, result.QueryType)
	assert.Contains(t, result.Answer, "Hello! I'm a RAG-powered assistant.")
	assert.Empty(t, result.Sources)
	assert.False(t, result.ContextUsed)
	assert.Empty(t, result.Error)
	assert.Zero(t, store.searches, "greeting must not hit the vector store")
	assert.Zero(t, completion.callCount(), "greeting must not invoke the model")
}

func TestQueryWorkflow_SearchIntentListsDocuments(t *testing.T) {
	store := &fakeStore{hits: []vector.SearchHit{
		scoredHit(strings.Repeat("long content ", 30), "report.txt", 0, 0.91),
		scoredHit("short body", "notes.txt", 1, 0.42),
	}}
	completion := &fakeCompletion{}
	workflow := newTestWorkflow(store, completion)

	result := workflow.Process(context.Background(), mustQuery("find quarterly report", 4, 0.7, 0.0))

	assert.Equal(t, query.TypeSearch, result.QueryType)
	assert.True(t, strings.HasPrefix(result.Answer, "Found documents:\n\n"))
	assert.Contains(t, result.Answer, "1. report.txt (relevance: 0.91)")
	assert.Contains(t, result.Answer, "2. notes.txt (relevance: 0.42)")
	assert.Contains(t, result.Answer, "...")
	// 列表路径同样回填 sources，顺序与答案里的编号一致
	require.Len(t, result.Sources, 2)
	assert.Equal(t, "report.txt", result.Sources[0].Filename)
	assert.Equal(t, "notes.txt", result.Sources[1].Filename)
	assert.False(t, result.ContextUsed)
	assert.Zero(t, completion.callCount(), "search intent must not invoke the model")

	// 摘录截断到 200 字符
	for _, line := range strings.Split(result.Answer, "\n") {
		assert.LessOrEqual(t, len(line), 240)
	}
}

func TestQueryWorkflow_SearchIntentNoMatches(t *testing.T) {
	workflow := newTestWorkflow(&fakeStore{}, &fakeCompletion{})

	result := workflow.Process(context.Background(), mustQuery("find something missing", 4, 0.7, 0.0))

	assert.Equal(t, "No documents found matching your query.", result.Answer)
	assert.Empty(t, result.Sources)
	assert.Empty(t, result.Error)
}

func TestQueryWorkflow_QuestionIntentFullPath(t *testing.T) {
	store := &fakeStore{hits: []vector.SearchHit{
		scoredHit("The sky is blue.", "a.txt", 0, 0.95),
	}}
	completion := &fakeCompletion{answer: "The sky is blue."}
	workflow := newTestWorkflow(store, completion)

	result := workflow.Process(context.Background(), mustQuery("what color is the sky", 4, 0.0, 0.0))

	assert.Equal(t, query.TypeQuestion, result.QueryType)
	assert.Equal(t, "The sky is blue.", result.Answer)
	assert.Equal(t, "test-model", result.Model)
	assert.True(t, result.ContextUsed)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "a.txt", result.Sources[0].Filename)
	assert.Empty(t, result.Error)
	assert.Contains(t, completion.lastPrompt, "[Source 1: a.txt")
}

func TestQueryWorkflow_SearchFailureContinuesDegraded(t *testing.T) {
	store := &fakeStore{searchErr: fmt.Errorf("%w: not initialized", query.ErrStoreUnavailable)}
	completion := &fakeCompletion{answer: "answered from sentinel context"}
	workflow := newTestWorkflow(store, completion)

	result := workflow.Process(context.Background(), mustQuery("what is in the corpus", 4, 0.7, 0.0))

	// 检索失败后以空结果继续：哨兵上下文照样进入生成
	assert.NotEmpty(t, result.Error)
	assert.Equal(t, "answered from sentinel context", result.Answer)
	assert.True(t, result.ContextUsed, "sentinel context is non-empty")
	assert.Equal(t, 1, completion.callCount())
}

func TestQueryWorkflow_GenerationFailureDegrades(t *testing.T) {
	store := &fakeStore{hits: []vector.SearchHit{
		scoredHit("The sky is blue.", "a.txt", 0, 0.95),
	}}
	completion := &fakeCompletion{err: fmt.Errorf("%w: timeout", query.ErrGenerationUnavailable)}
	workflow := newTestWorkflow(store, completion)

	result := workflow.Process(context.Background(), mustQuery("what color is the sky", 4, 0.7, 0.0))

	assert.NotEmpty(t, result.Error)
	assert.True(t, strings.HasPrefix(result.Answer, "Error generating answer: "))
	// 上下文在失败前已组装完成
	assert.True(t, result.ContextUsed)
	require.Len(t, result.Sources, 1)
}

func TestQueryWorkflow_AlwaysReturnsEnvelope(t *testing.T) {
	// nil 网关会让生成节点 panic，顶层兜底仍须产出信封
	retrieval := NewRetrievalService(&fakeStore{hits: []vector.SearchHit{
		scoredHit("content", "a.txt", 0, 0.9),
	}})
	workflow := NewQueryWorkflow(retrieval, nil)

	result := workflow.Process(context.Background(), mustQuery("what is this", 4, 0.7, 0.0))

	require.NotNil(t, result)
	assert.True(t, strings.HasPrefix(result.Answer, "Error processing query: "))
	assert.NotEmpty(t, result.Error)
	assert.NotNil(t, result.Sources)
}
