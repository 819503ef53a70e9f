package config

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Cache     CacheConfig     `yaml:"cache"`
	Watcher   WatcherConfig   `yaml:"watcher"`
	Upload    UploadConfig    `yaml:"upload"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// HTTPPort HTTP 监听端口，固定端口同时用于单例锁
	HTTPPort string `yaml:"http_port"`
}

// DatabaseConfig SQLite 文档注册表配置
type DatabaseConfig struct {
	// Path 数据库文件路径，留空使用数据目录下的默认路径
	Path string `yaml:"path"`
}

// QdrantConfig 向量存储配置
type QdrantConfig struct {
	// Host Qdrant 主机
	Host string `yaml:"host"`
	// Port Qdrant gRPC 端口
	Port int `yaml:"port"`
	// Collection 集合名
	Collection string `yaml:"collection"`
	// VectorSize 向量维度，需与 Embedding 模型一致
	VectorSize uint64 `yaml:"vector_size"`
}

// EmbeddingConfig Embedding API 配置（OpenAI 兼容）
type EmbeddingConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// LLMConfig 模型服务配置（OpenAI 兼容 Chat API）
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	// TimeoutSeconds 请求超时（秒）
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ChunkingConfig 文本切分配置
type ChunkingConfig struct {
	// ChunkSize 片段最大长度（字符数）
	ChunkSize int `yaml:"chunk_size"`
	// ChunkOverlap 相邻片段重叠长度，必须小于 ChunkSize
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// CacheConfig 回答缓存配置
type CacheConfig struct {
	// TTLSeconds 条目存活时间（秒）
	TTLSeconds int `yaml:"ttl_seconds"`
	// MaxSize 最大条目数，超出时按 LRU 淘汰
	MaxSize int `yaml:"max_size"`
}

// WatcherConfig 文档目录监听配置
type WatcherConfig struct {
	// Enabled 是否启用自动摄入
	Enabled bool `yaml:"enabled"`
	// Dir 监听的文档投放目录，留空使用数据目录下的 documents/
	Dir string `yaml:"dir"`
	// DebounceMS 防抖延迟（毫秒）
	DebounceMS int `yaml:"debounce_ms"`
}

// UploadConfig 上传限制配置
type UploadConfig struct {
	// MaxFileSize 上传文件大小上限（字节）
	MaxFileSize int64 `yaml:"max_file_size"`
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewQdrantConfig 创建 Qdrant 配置
func NewQdrantConfig(cfg *Config) *QdrantConfig {
	return &cfg.Qdrant
}

// NewEmbeddingConfig 创建 Embedding 配置
func NewEmbeddingConfig(cfg *Config) *EmbeddingConfig {
	return &cfg.Embedding
}

// NewLLMConfig 创建 LLM 配置
func NewLLMConfig(cfg *Config) *LLMConfig {
	return &cfg.LLM
}

// NewChunkingConfig 创建切分配置
func NewChunkingConfig(cfg *Config) *ChunkingConfig {
	return &cfg.Chunking
}

// NewCacheConfig 创建缓存配置
func NewCacheConfig(cfg *Config) *CacheConfig {
	return &cfg.Cache
}

// NewWatcherConfig 创建监听配置
func NewWatcherConfig(cfg *Config) *WatcherConfig {
	return &cfg.Watcher
}

// NewUploadConfig 创建上传配置
func NewUploadConfig(cfg *Config) *UploadConfig {
	return &cfg.Upload
}
