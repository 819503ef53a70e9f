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

func newTestPipeline(store *fakeStore, completion *fakeCompletion) *QueryPipeline {
	retrieval := NewRetrievalService(store)
	gateway := newTestGateway(completion)
	return NewQueryPipeline(retrieval, gateway, fakeTokens{})
}

func TestQueryPipeline_EmptyRetrievalShortCircuits(t *testing.T) {
	store := &fakeStore{}
	completion := &fakeCompletion{answer: "never"}
	pipeline := newTestPipeline(store, completion)

	result := pipeline.Ask(context.Background(), mustQuery("anything at all", 4, 0.7, 0.0))

	assert.Equal(t, "I couldn't find any relevant information in the database to answer your question.", result.Answer)
	assert.False(t, result.ContextUsed)
	assert.Empty(t, result.Sources)
	assert.Empty(t, result.Error)
	require.NotNil(t, result.Metrics)
	assert.Equal(t, 0, result.Metrics.DocumentsFound)
	assert.Zero(t, result.Metrics.GenerationTime)
	assert.Zero(t, completion.callCount(), "empty retrieval must not invoke the model")
}

func TestQueryPipeline_SuccessfulAnswer(t *testing.T) {
	store := &fakeStore{hits: []vector.SearchHit{
		scoredHit("The sky is blue.", "a.txt", 0, 0.95),
	}}
	completion := &fakeCompletion{answer: "The sky is blue."}
	pipeline := newTestPipeline(store, completion)

	result := pipeline.Ask(context.Background(), mustQuery("What color is the sky?", 4, 0.0, 0.0))

	assert.Equal(t, "The sky is blue.", result.Answer)
	assert.True(t, result.ContextUsed)
	assert.Equal(t, "test-model", result.Model)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "a.txt", result.Sources[0].Filename)

	require.NotNil(t, result.Metrics)
	assert.Equal(t, 1, result.Metrics.DocumentsFound)
	assert.Positive(t, result.Metrics.ContextLength)
	assert.Positive(t, result.Metrics.ContextTokens)
	assert.GreaterOrEqual(t, result.Metrics.TotalTime, result.Metrics.SearchTime)

	assert.Contains(t, completion.lastPrompt, "[Source 1: a.txt")
}

func TestQueryPipeline_CachingRoundTrip(t *testing.T) {
	store := &fakeStore{hits: []vector.SearchHit{
		scoredHit("The sky is blue.", "a.txt", 0, 0.95),
	}}
	completion := &fakeCompletion{answer: "The sky is blue."}
	pipeline := newTestPipeline(store, completion)
	ctx := context.Background()

	q := mustQuery("What color is the sky?", 4, 0.0, 0.0)

	first := pipeline.Ask(ctx, q)
	require.Empty(t, first.Error)
	assert.Equal(t, 1, completion.callCount())

	second := pipeline.Ask(ctx, q)
	require.Empty(t, second.Error)
	assert.Equal(t, 1, completion.callCount(), "identical re-ask must be served from cache")
	assert.Equal(t, first.Answer, second.Answer)
}

func TestQueryPipeline_SearchFailureDegrades(t *testing.T) {
	store := &fakeStore{searchErr: fmt.Errorf("%w: connection refused", query.ErrStoreUnavailable)}
	completion := &fakeCompletion{}
	pipeline := newTestPipeline(store, completion)

	result := pipeline.Ask(context.Background(), mustQuery("anything", 4, 0.7, 0.0))

	assert.True(t, strings.HasPrefix(result.Answer, "I encountered an error while processing your question: "))
	assert.NotEmpty(t, result.Error)
	assert.False(t, result.ContextUsed)
	require.NotNil(t, result.Metrics)
	assert.Positive(t, result.Metrics.TotalTime)
	assert.Zero(t, completion.callCount())
}

func TestQueryPipeline_GenerationFailureDegrades(t *testing.T) {
	store := &fakeStore{hits: []vector.SearchHit{
		scoredHit("content", "a.txt", 0, 0.8),
	}}
	completion := &fakeCompletion{err: fmt.Errorf("%w: timeout", query.ErrGenerationUnavailable)}
	pipeline := newTestPipeline(store, completion)

	result := pipeline.Ask(context.Background(), mustQuery("what is this", 4, 0.7, 0.0))

	assert.True(t, strings.HasPrefix(result.Answer, "I encountered an error while processing your question: "))
	assert.NotEmpty(t, result.Error)
	require.NotNil(t, result.Metrics)
	// 失败前已采集的检索耗时仍然上报
	assert.GreaterOrEqual(t, result.Metrics.TotalTime, result.Metrics.SearchTime)
}
