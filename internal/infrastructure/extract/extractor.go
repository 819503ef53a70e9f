package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BadLiar37/langchain-service/internal/infrastructure/config"
)

// ErrUnsupportedFormat 不支持的文件格式
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge 文件超过大小限制
var ErrFileTooLarge = errors.New("file too large")

// Extractor 从单一格式的文件内容中提取纯文本
type Extractor interface {
	// Extract 提取纯文本内容
	Extract(data []byte) (string, error)
	// Extensions 返回支持的扩展名（小写，含点号）
	Extensions() []string
}

// Registry 按扩展名分发的提取器注册表
type Registry struct {
	extractors  map[string]Extractor
	maxFileSize int64
}

// NewRegistry 创建提取器注册表并注册内置提取器
func NewRegistry(cfg *config.UploadConfig) *Registry {
	r := &Registry{
		extractors:  make(map[string]Extractor),
		maxFileSize: cfg.MaxFileSize,
	}
	r.Register(&PlainTextExtractor{})
	r.Register(&MarkdownExtractor{})
	return r
}

// Register 注册提取器，后注册的覆盖同扩展名的先注册者
func (r *Registry) Register(e Extractor) {
	for _, ext := range e.Extensions() {
		r.extractors[strings.ToLower(ext)] = e
	}
}

// Supported 判断文件名对应的格式是否受支持
func (r *Registry) Supported(filename string) bool {
	_, ok := r.extractors[normalizeExt(filename)]
	return ok
}

// SupportedExtensions 返回所有受支持的扩展名
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		exts = append(exts, ext)
	}
	return exts
}

// ExtractText 按文件名选择提取器并提取纯文本
// 在分发前校验文件大小上限
func (r *Registry) ExtractText(filename string, data []byte) (string, error) {
	if r.maxFileSize > 0 && int64(len(data)) > r.maxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, filename, len(data), r.maxFileSize)
	}

	ext := normalizeExt(filename)
	extractor, ok := r.extractors[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	return extractor.Extract(data)
}

// FileType 返回文件名对应的类型标识（不含点号的扩展名）
func FileType(filename string) string {
	return strings.TrimPrefix(normalizeExt(filename), ".")
}

func normalizeExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// PlainTextExtractor 纯文本提取器
type PlainTextExtractor struct{}

// Extract 纯文本直接透传
func (e *PlainTextExtractor) Extract(data []byte) (string, error) {
	return string(data), nil
}

// Extensions 支持的扩展名
func (e *PlainTextExtractor) Extensions() []string {
	return []string{".txt", ".text", ".log"}
}

// MarkdownExtractor Markdown提取器
// Markdown按原文入库，标题与列表标记保留给分块器作为分隔线索
type MarkdownExtractor struct{}

// Extract 提取Markdown文本
func (e *MarkdownExtractor) Extract(data []byte) (string, error) {
	return string(data), nil
}

// Extensions 支持的扩展名
func (e *MarkdownExtractor) Extensions() []string {
	return []string{".md", ".markdown"}
}
