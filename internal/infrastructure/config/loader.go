package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// 环境变量名
// 与配置文件同名字段相比，环境变量优先级更高
const (
	// EnvConfigPath 配置文件路径
	EnvConfigPath = "CONFIG_PATH"
	// EnvHTTPPort HTTP 端口
	EnvHTTPPort = "APP_PORT"
	// EnvCollectionName 向量集合名
	EnvCollectionName = "COLLECTION_NAME"
	// EnvQdrantHost Qdrant 主机
	EnvQdrantHost = "QDRANT_HOST"
	// EnvQdrantPort Qdrant gRPC 端口
	EnvQdrantPort = "QDRANT_PORT"
	// EnvEmbeddingBaseURL Embedding API 地址
	EnvEmbeddingBaseURL = "EMBEDDING_BASE_URL"
	// EnvEmbeddingAPIKey Embedding API Key
	EnvEmbeddingAPIKey = "EMBEDDING_API_KEY"
	// EnvEmbeddingModel Embedding 模型名
	EnvEmbeddingModel = "EMBEDDING_MODEL"
	// EnvLLMBaseURL LLM API 地址
	EnvLLMBaseURL = "LLM_BASE_URL"
	// EnvLLMAPIKey LLM API Key
	EnvLLMAPIKey = "LLM_API_KEY"
	// EnvLLMModel LLM 模型名
	EnvLLMModel = "LLM_MODEL"
	// EnvLLMTimeout LLM 请求超时（秒）
	EnvLLMTimeout = "LLM_TIMEOUT"
	// EnvChunkSize 片段最大长度
	EnvChunkSize = "CHUNK_SIZE"
	// EnvChunkOverlap 片段重叠长度
	EnvChunkOverlap = "CHUNK_OVERLAP"
	// EnvCacheTTL 缓存条目 TTL（秒）
	EnvCacheTTL = "LLM_CACHE_TTL"
	// EnvCacheMaxSize 缓存最大条目数
	EnvCacheMaxSize = "LLM_CACHE_MAXSIZE"
	// EnvMaxFileSize 上传文件大小上限（字节）
	EnvMaxFileSize = "MAX_FILE_SIZE"
	// EnvWatchDir 文档监听目录
	EnvWatchDir = "WATCH_DIR"
)

// NewConfig 加载配置
// 顺序：默认值 → 配置文件（CONFIG_PATH，默认数据目录下 config.yaml）→ 环境变量
func NewConfig() (*Config, error) {
	cfg := defaultConfig()

	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = filepath.Join(GetDataDir(), "config.yaml")
	}

	// 配置文件可选，不存在时只用默认值和环境变量
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaultConfig 默认配置
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":8080",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "documents",
			VectorSize: 768,
		},
		Embedding: EmbeddingConfig{
			BaseURL: "http://localhost:11434/v1",
			Model:   "nomic-embed-text:latest",
		},
		LLM: LLMConfig{
			BaseURL:        "http://localhost:11434/v1",
			Model:          "llama3",
			TimeoutSeconds: 30,
		},
		Chunking: ChunkingConfig{
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Cache: CacheConfig{
			TTLSeconds: 3600,
			MaxSize:    256,
		},
		Watcher: WatcherConfig{
			Enabled:    true,
			Dir:        "",
			DebounceMS: 500,
		},
		Upload: UploadConfig{
			MaxFileSize: 10 * 1024 * 1024,
		},
	}
}

// applyEnvOverrides 应用环境变量覆盖
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.HTTPPort, EnvHTTPPort)
	setString(&cfg.Qdrant.Collection, EnvCollectionName)
	setString(&cfg.Qdrant.Host, EnvQdrantHost)
	setInt(&cfg.Qdrant.Port, EnvQdrantPort)
	setString(&cfg.Embedding.BaseURL, EnvEmbeddingBaseURL)
	setString(&cfg.Embedding.APIKey, EnvEmbeddingAPIKey)
	setString(&cfg.Embedding.Model, EnvEmbeddingModel)
	setString(&cfg.LLM.BaseURL, EnvLLMBaseURL)
	setString(&cfg.LLM.APIKey, EnvLLMAPIKey)
	setString(&cfg.LLM.Model, EnvLLMModel)
	setInt(&cfg.LLM.TimeoutSeconds, EnvLLMTimeout)
	setInt(&cfg.Chunking.ChunkSize, EnvChunkSize)
	setInt(&cfg.Chunking.ChunkOverlap, EnvChunkOverlap)
	setInt(&cfg.Cache.TTLSeconds, EnvCacheTTL)
	setInt(&cfg.Cache.MaxSize, EnvCacheMaxSize)
	setInt64(&cfg.Upload.MaxFileSize, EnvMaxFileSize)
	setString(&cfg.Watcher.Dir, EnvWatchDir)
}

// validate 校验配置一致性
func validate(cfg *Config) error {
	if cfg.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunking.chunk_size must be positive, got %d", cfg.Chunking.ChunkSize)
	}
	if cfg.Chunking.ChunkOverlap < 0 || cfg.Chunking.ChunkOverlap >= cfg.Chunking.ChunkSize {
		return fmt.Errorf("chunking.chunk_overlap must be in [0, chunk_size), got %d", cfg.Chunking.ChunkOverlap)
	}
	if cfg.Cache.MaxSize <= 0 {
		return fmt.Errorf("cache.max_size must be positive, got %d", cfg.Cache.MaxSize)
	}
	if cfg.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be positive, got %d", cfg.Cache.TTLSeconds)
	}
	return nil
}

// setString 用环境变量覆盖字符串字段
func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// setInt 用环境变量覆盖整型字段
func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// setInt64 用环境变量覆盖 int64 字段
func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
