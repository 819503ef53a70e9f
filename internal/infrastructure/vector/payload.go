package vector

import (
	"github.com/qdrant/go-client/qdrant"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
)

// payload 键名
const (
	payloadContent     = "content"
	payloadFilename    = "filename"
	payloadFileType    = "file_type"
	payloadChunkIndex  = "chunk_index"
	payloadTotalChunks = "total_chunks"
	payloadChunkSize   = "chunk_size"
	payloadPageNumber  = "page_number"
)

// buildPayload 将片段内容与元数据编码为 Qdrant payload
func buildPayload(content string, m document.Metadata) map[string]interface{} {
	payload := map[string]interface{}{
		payloadContent:     content,
		payloadFilename:    m.Filename,
		payloadFileType:    m.FileType,
		payloadChunkIndex:  int64(m.ChunkIndex),
		payloadTotalChunks: int64(m.TotalChunks),
		payloadChunkSize:   int64(m.ChunkSize),
	}
	if m.PageNumber > 0 {
		payload[payloadPageNumber] = int64(m.PageNumber)
	}
	return payload
}

// hitFromPoint 从检索命中的点还原 SearchHit
// payload 缺失时返回 ok=false，调用方跳过该点
func hitFromPoint(point *qdrant.ScoredPoint) (SearchHit, bool) {
	payload := point.GetPayload()
	if payload == nil {
		return SearchHit{}, false
	}

	metadata := document.Metadata{
		Filename:    extractString(payload[payloadFilename]),
		FileType:    extractString(payload[payloadFileType]),
		ChunkIndex:  int(extractInt(payload[payloadChunkIndex])),
		TotalChunks: int(extractInt(payload[payloadTotalChunks])),
		ChunkSize:   int(extractInt(payload[payloadChunkSize])),
		PageNumber:  int(extractInt(payload[payloadPageNumber])),
	}
	if metadata.Filename == "" {
		metadata.Filename = document.DefaultFilename
	}

	return SearchHit{
		Content:  extractString(payload[payloadContent]),
		Metadata: metadata,
		Score:    float64(point.GetScore()),
	}, true
}

// extractString 从 qdrant.Value 提取字符串值
func extractString(val *qdrant.Value) string {
	if val == nil {
		return ""
	}
	if sv, ok := val.GetKind().(*qdrant.Value_StringValue); ok {
		return sv.StringValue
	}
	return ""
}

// extractInt 从 qdrant.Value 提取整数值
func extractInt(val *qdrant.Value) int64 {
	if val == nil {
		return 0
	}
	if iv, ok := val.GetKind().(*qdrant.Value_IntegerValue); ok {
		return iv.IntegerValue
	}
	return 0
}
