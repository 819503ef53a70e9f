package infrastructure

import (
	"github.com/google/wire"

	"github.com/BadLiar37/langchain-service/internal/infrastructure/cache"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/config"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/embedding"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/extract"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/llm"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/storage"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/tokenizer"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/vector"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/watcher"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	embedding.ProviderSet,
	llm.ProviderSet,
	cache.ProviderSet,
	vector.ProviderSet,
	tokenizer.ProviderSet,
	extract.ProviderSet,
	watcher.ProviderSet,
	websocket.ProviderSet,
)
