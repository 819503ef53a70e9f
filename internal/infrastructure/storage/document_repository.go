package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
)

// DocumentRepository 基于SQLite的文档登记仓储实现
type DocumentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDocumentRepository 创建文档仓储
func NewDocumentRepository(db *sql.DB) document.Repository {
	return &DocumentRepository{
		db:     db,
		logger: log.NewModuleLogger("storage", "document_repository"),
	}
}

// SaveRecord 保存文档登记信息，同名文档覆盖旧记录
func (r *DocumentRepository) SaveRecord(ctx context.Context, record *document.Record) error {
	query := `
	INSERT INTO documents (id, filename, file_type, chunk_count, content_length, ingested_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		filename = excluded.filename,
		file_type = excluded.file_type,
		chunk_count = excluded.chunk_count,
		content_length = excluded.content_length,
		ingested_at = excluded.ingested_at`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Filename,
		record.FileType,
		record.ChunkCount,
		record.ContentLength,
		record.IngestedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save document record: %w", err)
	}

	r.logger.Debug("Document record saved", "filename", record.Filename, "chunks", record.ChunkCount)
	return nil
}

// ListRecords 分页列出文档记录，按入库时间倒序
func (r *DocumentRepository) ListRecords(ctx context.Context, offset, limit int) ([]*document.Record, error) {
	query := `
	SELECT id, filename, file_type, chunk_count, content_length, ingested_at
	FROM documents
	ORDER BY ingested_at DESC
	LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list document records: %w", err)
	}
	defer rows.Close()

	var records []*document.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document records: %w", err)
	}

	return records, nil
}

// CountRecords 统计文档记录总数
func (r *DocumentRepository) CountRecords(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count document records: %w", err)
	}
	return count, nil
}

// GetStats 获取文档与分块的汇总统计
func (r *DocumentRepository) GetStats(ctx context.Context) (*document.Stats, error) {
	var stats document.Stats
	query := `SELECT COUNT(*), COALESCE(SUM(chunk_count), 0) FROM documents`
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.DocumentCount, &stats.ChunkCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get document stats: %w", err)
	}
	return &stats, nil
}

// DeleteRecord 删除文档记录
func (r *DocumentRepository) DeleteRecord(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document record not found: %s", id)
	}

	return nil
}

// scanRecord 扫描单行文档记录
func scanRecord(rows *sql.Rows) (*document.Record, error) {
	var record document.Record
	var ingestedAt int64

	err := rows.Scan(
		&record.ID,
		&record.Filename,
		&record.FileType,
		&record.ChunkCount,
		&record.ContentLength,
		&ingestedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan document record: %w", err)
	}

	record.IngestedAt = time.Unix(ingestedAt, 0)
	return &record, nil
}
