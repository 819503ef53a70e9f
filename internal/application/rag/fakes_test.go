package rag

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
	"github.com/BadLiar37/langchain-service/internal/domain/query"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/cache"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/config"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/vector"
)

// fakeStore 内存向量存储替身
// 检索直接返回预置命中，写入记录传入的文本与元数据
type fakeStore struct {
	mu        sync.Mutex
	hits      []vector.SearchHit
	searchErr error
	addErr    error

	addedTexts []string
	addedMetas []document.Metadata
	searches   int
}

func (f *fakeStore) AddTexts(ctx context.Context, texts []string, metadatas []document.Metadata) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.addedTexts = append(f.addedTexts, texts...)
	f.addedMetas = append(f.addedMetas, metadatas...)
	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = fmt.Sprintf("id-%d", len(f.addedTexts)-len(texts)+i)
	}
	return ids, nil
}

func (f *fakeStore) SimilaritySearchWithScore(ctx context.Context, queryText string, k int, scoreThreshold float64) ([]vector.SearchHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	hits := f.hits
	if len(hits) > k {
		hits = hits[:k]
	}
	filtered := make([]vector.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if hit.Score >= scoreThreshold {
			filtered = append(filtered, hit)
		}
	}
	return filtered, nil
}

func (f *fakeStore) Count(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.addedTexts)), nil
}

func (f *fakeStore) CollectionName() string {
	return "documents"
}

// fakeCompletion 模型服务替身，统计调用次数
type fakeCompletion struct {
	mu     sync.Mutex
	answer string
	err    error
	calls  int
	// lastPrompt 最近一次收到的提示词
	lastPrompt      string
	lastTemperature float64
}

func (f *fakeCompletion) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPrompt = prompt
	f.lastTemperature = temperature
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeCompletion) Model() string {
	return "test-model"
}

func (f *fakeCompletion) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeTokens 以空白分词近似的 Token 统计替身
type fakeTokens struct{}

func (fakeTokens) CountTokens(text string) int {
	return len(strings.Fields(text))
}

// fakeRecords 内存文档登记替身
type fakeRecords struct {
	mu      sync.Mutex
	records map[string]*document.Record
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: make(map[string]*document.Record)}
}

func (f *fakeRecords) SaveRecord(ctx context.Context, record *document.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.ID] = record
	return nil
}

func (f *fakeRecords) ListRecords(ctx context.Context, offset, limit int) ([]*document.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*document.Record, 0, len(f.records))
	for _, record := range f.records {
		all = append(all, record)
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeRecords) CountRecords(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records), nil
}

func (f *fakeRecords) GetStats(ctx context.Context) (*document.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &document.Stats{DocumentCount: len(f.records)}
	for _, record := range f.records {
		stats.ChunkCount += record.ChunkCount
	}
	return stats, nil
}

func (f *fakeRecords) DeleteRecord(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
	return nil
}

// scoredHit 构造带评分的检索命中
func scoredHit(content, filename string, chunkIndex int, score float64) vector.SearchHit {
	return vector.SearchHit{
		Content: content,
		Metadata: document.Metadata{
			Filename:   filename,
			FileType:   "txt",
			ChunkIndex: chunkIndex,
		},
		Score: score,
	}
}

// newTestGateway 基于替身构造模型网关
func newTestGateway(completion CompletionClient) *ModelGateway {
	responseCache := cache.NewResponseCache(&config.CacheConfig{TTLSeconds: 3600, MaxSize: 64})
	return NewModelGateway(completion, responseCache)
}

// mustQuery 构造合法查询
func mustQuery(text string, topK int, temperature, threshold float64) *query.Query {
	q, err := query.NewQuery(text, topK, temperature, threshold)
	if err != nil {
		panic(err)
	}
	return q
}
