package document

// 元数据默认值
const (
	// DefaultFilename 缺失文件名时的默认值
	DefaultFilename = "Unknown"
	// DefaultFileType 缺失文件类型时的默认值
	DefaultFileType = ""
)

// Metadata 片段元数据
// 必填字段在构造时校验并填充默认值，之后各读取点不再做防御性检查
type Metadata struct {
	// Filename 来源文件名，缺失时为 "Unknown"
	Filename string
	// FileType 文件类型（扩展名），缺失时为空字符串
	FileType string
	// ChunkIndex 片段在文档内的序号，0 起始的稠密序列
	ChunkIndex int
	// TotalChunks 文档切分后的片段总数
	TotalChunks int
	// ChunkSize 片段内容长度（字符数）
	ChunkSize int
	// PageNumber 页码（分页格式才有），0 表示无
	PageNumber int
	// RelevanceScore 检索相关性评分，检索后由 RetrievalService 填充
	RelevanceScore *float64
}

// NewMetadata 创建元数据，填充缺失字段的默认值
// 返回值 defaulted 标记是否发生了默认值回填（调用方据此记录诊断日志）
func NewMetadata(filename, fileType string) (m Metadata, defaulted bool) {
	m = Metadata{
		Filename: filename,
		FileType: fileType,
	}
	if m.Filename == "" {
		m.Filename = DefaultFilename
		defaulted = true
	}
	return m, defaulted
}

// WithScore 返回携带相关性评分的元数据副本
func (m Metadata) WithScore(score float64) Metadata {
	m.RelevanceScore = &score
	return m
}

// Chunk 文档片段
// 有界、带重叠的文本段，是存储与检索的最小单位
type Chunk struct {
	// Content 片段文本内容
	Content string
	// Metadata 片段元数据
	Metadata Metadata
}

// Preview 返回内容预览（前 n 字符）
func (c *Chunk) Preview(n int) string {
	runes := []rune(c.Content)
	if len(runes) <= n {
		return c.Content
	}
	return string(runes[:n])
}
