package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTiktokenCounter(t *testing.T) {
	// 测试单例模式
	counter1, err := NewTiktokenCounter()
	require.NoError(t, err, "should create counter without error")
	require.NotNil(t, counter1, "counter should not be nil")

	counter2, err := NewTiktokenCounter()
	require.NoError(t, err, "should get counter without error")
	require.NotNil(t, counter2, "counter should not be nil")

	// 确保是同一个实例
	assert.Same(t, counter1, counter2, "should return the same instance")
}

func TestTiktokenCounter_CountTokens(t *testing.T) {
	counter, err := NewTiktokenCounter()
	require.NoError(t, err)

	tests := []struct {
		name     string
		text     string
		minCount int // 最小预期 token 数
		maxCount int // 最大预期 token 数
	}{
		{
			name:     "空字符串",
			text:     "",
			minCount: 0,
			maxCount: 0,
		},
		{
			name:     "简单英文",
			text:     "Hello, world!",
			minCount: 3,
			maxCount: 5,
		},
		{
			name:     "简单中文",
			text:     "你好世界",
			minCount: 2,
			maxCount: 8,
		},
		{
			name:     "检索上下文片段",
			text:     "[Source 1: readme.md - relevance: 0.92]\nThe service indexes uploaded documents.",
			minCount: 15,
			maxCount: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := counter.CountTokens(tt.text)
			assert.GreaterOrEqual(t, count, tt.minCount, "token count should be >= minCount")
			assert.LessOrEqual(t, count, tt.maxCount, "token count should be <= maxCount")
		})
	}
}

func TestTiktokenCounter_CountTokensBatch(t *testing.T) {
	counter, err := NewTiktokenCounter()
	require.NoError(t, err)

	texts := []string{
		"Hello, world!",
		"你好世界",
		"What is retrieval augmented generation?",
	}

	// 批量计数应该等于单独计数之和
	batchCount := counter.CountTokensBatch(texts)

	var singleSum int
	for _, text := range texts {
		singleSum += counter.CountTokens(text)
	}

	assert.Equal(t, singleSum, batchCount, "batch count should equal sum of individual counts")
}
