package vector

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
)

func TestBuildPayload(t *testing.T) {
	m := document.Metadata{
		Filename:    "a.txt",
		FileType:    "txt",
		ChunkIndex:  2,
		TotalChunks: 5,
		ChunkSize:   100,
	}

	payload := buildPayload("hello", m)

	assert.Equal(t, "hello", payload[payloadContent])
	assert.Equal(t, "a.txt", payload[payloadFilename])
	assert.Equal(t, int64(2), payload[payloadChunkIndex])
	assert.Equal(t, int64(5), payload[payloadTotalChunks])
	_, hasPage := payload[payloadPageNumber]
	assert.False(t, hasPage, "无页码时不写入 page_number")
}

func TestBuildPayload_WithPage(t *testing.T) {
	m := document.Metadata{Filename: "b.pdf", FileType: "pdf", PageNumber: 3}
	payload := buildPayload("x", m)
	assert.Equal(t, int64(3), payload[payloadPageNumber])
}

func TestHitFromPoint(t *testing.T) {
	point := &qdrant.ScoredPoint{
		Score: 0.87,
		Payload: qdrant.NewValueMap(map[string]interface{}{
			payloadContent:     "The sky is blue.",
			payloadFilename:    "a.txt",
			payloadFileType:    "txt",
			payloadChunkIndex:  int64(0),
			payloadTotalChunks: int64(1),
			payloadChunkSize:   int64(16),
		}),
	}

	hit, ok := hitFromPoint(point)
	require.True(t, ok)
	assert.Equal(t, "The sky is blue.", hit.Content)
	assert.Equal(t, "a.txt", hit.Metadata.Filename)
	assert.Equal(t, 0, hit.Metadata.ChunkIndex)
	assert.InDelta(t, 0.87, hit.Score, 1e-6)
}

func TestHitFromPoint_NoPayload(t *testing.T) {
	_, ok := hitFromPoint(&qdrant.ScoredPoint{Score: 0.5})
	assert.False(t, ok)
}

func TestHitFromPoint_MissingFilename(t *testing.T) {
	point := &qdrant.ScoredPoint{
		Score: 0.5,
		Payload: qdrant.NewValueMap(map[string]interface{}{
			payloadContent: "orphan chunk",
		}),
	}

	hit, ok := hitFromPoint(point)
	require.True(t, ok)
	assert.Equal(t, document.DefaultFilename, hit.Metadata.Filename)
}
