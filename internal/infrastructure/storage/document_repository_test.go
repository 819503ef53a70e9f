package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/config"
)

func setupTestRepository(t *testing.T) document.Repository {
	t.Helper()

	cfg := &config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")}
	db, err := OpenDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewDocumentRepository(db)
}

func TestDocumentRepository_SaveAndList(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	older := &document.Record{
		ID:            "doc-1",
		Filename:      "readme.md",
		FileType:      "md",
		ChunkCount:    3,
		ContentLength: 1200,
		IngestedAt:    time.Now().Add(-time.Hour),
	}
	newer := &document.Record{
		ID:            "doc-2",
		Filename:      "notes.txt",
		FileType:      "txt",
		ChunkCount:    5,
		ContentLength: 4800,
		IngestedAt:    time.Now(),
	}

	require.NoError(t, repo.SaveRecord(ctx, older))
	require.NoError(t, repo.SaveRecord(ctx, newer))

	records, err := repo.ListRecords(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// 按入库时间倒序
	assert.Equal(t, "notes.txt", records[0].Filename)
	assert.Equal(t, "readme.md", records[1].Filename)
	assert.Equal(t, 5, records[0].ChunkCount)
}

func TestDocumentRepository_SaveOverwritesSameID(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	record := &document.Record{
		ID:            "doc-1",
		Filename:      "readme.md",
		FileType:      "md",
		ChunkCount:    3,
		ContentLength: 1200,
		IngestedAt:    time.Now(),
	}
	require.NoError(t, repo.SaveRecord(ctx, record))

	record.ChunkCount = 7
	record.ContentLength = 2500
	require.NoError(t, repo.SaveRecord(ctx, record))

	count, err := repo.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	records, err := repo.ListRecords(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].ChunkCount)
}

func TestDocumentRepository_ListPagination(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		record := &document.Record{
			ID:            "doc-" + string(rune('a'+i)),
			Filename:      "file-" + string(rune('a'+i)) + ".txt",
			FileType:      "txt",
			ChunkCount:    1,
			ContentLength: 100,
			IngestedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.SaveRecord(ctx, record))
	}

	page, err := repo.ListRecords(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "file-c.txt", page[0].Filename)
	assert.Equal(t, "file-b.txt", page[1].Filename)
}

func TestDocumentRepository_GetStats(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.DocumentCount)
	assert.Equal(t, 0, stats.ChunkCount)

	require.NoError(t, repo.SaveRecord(ctx, &document.Record{
		ID: "doc-1", Filename: "a.txt", FileType: "txt",
		ChunkCount: 3, ContentLength: 900, IngestedAt: time.Now(),
	}))
	require.NoError(t, repo.SaveRecord(ctx, &document.Record{
		ID: "doc-2", Filename: "b.txt", FileType: "txt",
		ChunkCount: 4, ContentLength: 1600, IngestedAt: time.Now(),
	}))

	stats, err = repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.DocumentCount)
	assert.Equal(t, 7, stats.ChunkCount)
}

func TestDocumentRepository_DeleteRecord(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveRecord(ctx, &document.Record{
		ID: "doc-1", Filename: "a.txt", FileType: "txt",
		ChunkCount: 1, ContentLength: 100, IngestedAt: time.Now(),
	}))

	require.NoError(t, repo.DeleteRecord(ctx, "doc-1"))

	count, err := repo.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	err = repo.DeleteRecord(ctx, "doc-1")
	assert.Error(t, err)
}
