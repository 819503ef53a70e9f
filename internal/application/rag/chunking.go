package rag

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/config"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
)

// defaultSeparators 递归切分的边界偏好顺序
// 段落 → 行 → 句子 → 词 → 字符，自然断点优先于硬切
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// ChunkingService 文本切分服务
// 将摄入文本切为有界、带重叠的片段，只在摄入路径使用
type ChunkingService struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
	logger       *slog.Logger
}

// NewChunkingService 创建切分服务
// 重叠长度必须严格小于片段长度
func NewChunkingService(cfg *config.ChunkingConfig) (*ChunkingService, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk_size must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("chunk_overlap must be in [0,%d), got %d", cfg.ChunkSize, cfg.ChunkOverlap)
	}

	logger := log.NewModuleLogger("rag", "chunking")
	logger.Info("Chunking service initialized",
		"chunk_size", cfg.ChunkSize,
		"chunk_overlap", cfg.ChunkOverlap,
	)

	return &ChunkingService{
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		separators:   defaultSeparators,
		logger:       logger,
	}, nil
}

// Split 切分文本并为每个片段盖上位置元数据
// 缺失的文件名/文件类型回填默认值并记录警告，从不因此拒绝摄入
func (s *ChunkingService) Split(text string, meta document.Metadata) []document.Chunk {
	if meta.Filename == "" {
		s.logger.Warn("Chunk metadata missing filename, defaulting", "default", document.DefaultFilename)
		meta.Filename = document.DefaultFilename
	}

	pieces := s.splitText(text, s.separators)

	chunks := make([]document.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunkMeta := meta
		chunkMeta.ChunkIndex = i
		chunkMeta.TotalChunks = len(pieces)
		chunkMeta.ChunkSize = utf8.RuneCountInString(piece)
		chunks = append(chunks, document.Chunk{
			Content:  piece,
			Metadata: chunkMeta,
		})
	}

	s.logger.Info("Text split into chunks",
		"filename", meta.Filename,
		"text_length", utf8.RuneCountInString(text),
		"chunks", len(chunks),
	)

	return chunks
}

// OptimalChunkSize 按输入长度给出建议的片段长度
// 策略钩子，默认路径不接入，由调用方自行选用
func (s *ChunkingService) OptimalChunkSize(textLength int) int {
	switch {
	case textLength < 1000:
		return 256
	case textLength < 5000:
		return 512
	case textLength < 20000:
		return 1024
	default:
		return 2048
	}
}

// splitText 按分隔符优先级递归切分
// 分隔符保留在前一个片段尾部，保证按序拼接（去除重叠后）可还原原文
func (s *ChunkingService) splitText(text string, separators []string) []string {
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= s.chunkSize {
		return []string{text}
	}

	// 选择当前文本中出现的最靠前的分隔符
	separator := separators[len(separators)-1]
	var remaining []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	splits := splitKeepingSeparator(text, separator)

	var final []string
	var good []string
	for _, piece := range splits {
		if utf8.RuneCountInString(piece) <= s.chunkSize {
			good = append(good, piece)
			continue
		}

		// 超长片段先落盘已积累的合并结果，再用更细的分隔符递归
		if len(good) > 0 {
			final = append(final, s.mergeSplits(good)...)
			good = nil
		}
		if len(remaining) == 0 {
			// 没有更细的分隔符可用，单个不可再分的片段按原样保留
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, remaining)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.mergeSplits(good)...)
	}

	return final
}

// mergeSplits 贪心合并细粒度片段至接近片段上限
// 生成新片段时保留尾部若干片段作为与下一片段的重叠
func (s *ChunkingService) mergeSplits(splits []string) []string {
	var chunks []string
	var current []string
	total := 0

	for _, piece := range splits {
		pieceLen := utf8.RuneCountInString(piece)

		if total+pieceLen > s.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, ""))

			// 从头部弹出片段，直到留下的尾部满足重叠上限且能容纳新片段
			for len(current) > 0 && (total > s.chunkOverlap || total+pieceLen > s.chunkSize) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += pieceLen
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, ""))
	}

	return chunks
}

// splitKeepingSeparator 按分隔符切分，分隔符附着在前一片段尾部
// 空分隔符退化为按字符切分
func splitKeepingSeparator(text, separator string) []string {
	if separator == "" {
		runes := []rune(text)
		pieces := make([]string, 0, len(runes))
		for _, r := range runes {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.SplitAfter(text, separator)
	// SplitAfter 在文本以分隔符结尾时会产生末尾空串
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
