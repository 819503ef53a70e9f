// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"github.com/BadLiar37/langchain-service/internal/application/rag"
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
	"github.com/BadLiar37/langchain-service/internal/interfaces/http"
	"github.com/BadLiar37/langchain-service/internal/interfaces/http/handler"
	"github.com/BadLiar37/langchain-service/internal/interfaces/mcp"
)

// Injectors from wire.go:

// InitializeAll 初始化所有服务（HTTP + MCP）
func InitializeAll() (*App, error) {
	configConfig, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	serverConfig := config.NewServerConfig(configConfig)
	chunkingConfig := config.NewChunkingConfig(configConfig)
	chunkingService, err := rag.NewChunkingService(chunkingConfig)
	if err != nil {
		return nil, err
	}
	qdrantConfig := config.NewQdrantConfig(configConfig)
	embeddingConfig := config.NewEmbeddingConfig(configConfig)
	client := embedding.NewClient(embeddingConfig)
	store, err := vector.NewStore(qdrantConfig, client)
	if err != nil {
		return nil, err
	}
	retrievalService := rag.NewRetrievalService(store)
	llmConfig := config.NewLLMConfig(configConfig)
	llmClient := llm.NewClient(llmConfig)
	cacheConfig := config.NewCacheConfig(configConfig)
	responseCache := cache.NewResponseCache(cacheConfig)
	modelGateway := rag.NewModelGateway(llmClient, responseCache)
	tiktokenCounter, err := tokenizer.NewTiktokenCounter()
	if err != nil {
		return nil, err
	}
	queryPipeline := rag.NewQueryPipeline(retrievalService, modelGateway, tiktokenCounter)
	queryWorkflow := rag.NewQueryWorkflow(retrievalService, modelGateway)
	databaseConfig := config.NewDatabaseConfig(configConfig)
	db, err := storage.OpenDB(databaseConfig)
	if err != nil {
		return nil, err
	}
	repository := storage.NewDocumentRepository(db)
	uploadConfig := config.NewUploadConfig(configConfig)
	registry := extract.NewRegistry(uploadConfig)
	eventBus := watcher.NewEventBus()
	service := rag.NewService(chunkingService, queryPipeline, queryWorkflow, store, repository, registry, eventBus)
	documentHandler := handler.NewDocumentHandler(service, registry)
	queryHandler := handler.NewQueryHandler(service, llmClient)
	hub := websocket.NewHub()
	notificationHandler := handler.NewNotificationHandler(hub)
	mcpServer := mcp.NewServer(service)
	httpServer := http.NewServer(serverConfig, documentHandler, queryHandler, notificationHandler, mcpServer)
	watcherConfig := config.NewWatcherConfig(configConfig)
	fileWatcher, err := watcher.NewFileWatcher(watcherConfig, eventBus, registry)
	if err != nil {
		return nil, err
	}
	app := NewApp(httpServer, hub, service, store, eventBus, fileWatcher, db)
	return app, nil
}
