package wire

import (
	"context"
	"database/sql"
	"time"

	"log/slog"

	"github.com/BadLiar37/langchain-service/internal/application/rag"
	"github.com/BadLiar37/langchain-service/internal/domain/events"
	applog "github.com/BadLiar37/langchain-service/internal/infrastructure/log"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/vector"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/watcher"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/websocket"
	ihttp "github.com/BadLiar37/langchain-service/internal/interfaces/http"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *ihttp.HTTPServer
	wsHub      *websocket.Hub
	ragService *rag.Service
	store      *vector.Store
	db         *sql.DB
	logger     *slog.Logger

	// 文件监听相关
	eventBus    events.EventBus
	fileWatcher *watcher.FileWatcher
}

// NewApp 创建应用实例
func NewApp(
	httpServer *ihttp.HTTPServer,
	wsHub *websocket.Hub,
	ragService *rag.Service,
	store *vector.Store,
	eventBus events.EventBus,
	fileWatcher *watcher.FileWatcher,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer:  httpServer,
		wsHub:       wsHub,
		ragService:  ragService,
		store:       store,
		db:          db,
		logger:      applog.NewModuleLogger("app", "main"),
		eventBus:    eventBus,
		fileWatcher: fileWatcher,
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting langchain-service application")

	// 确保 Qdrant 集合存在
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.store.EnsureCollection(ctx); err != nil {
		a.logger.Error("Failed to ensure vector collection",
			"collection", a.store.CollectionName(),
			"error", err,
		)
	}

	// 注册事件订阅者并启动文件监听
	a.setupEventSubscribers()
	if a.fileWatcher != nil {
		if err := a.fileWatcher.Start(); err != nil {
			a.logger.Error("Failed to start file watcher",
				"error", err,
			)
		} else if a.fileWatcher.Enabled() {
			a.logger.Info("File watcher started successfully",
				"dir", a.fileWatcher.Dir(),
			)
		}
	}

	// 启动 WebSocket Hub
	a.wsHub.Start()

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(); err != nil {
			a.logger.Error("Failed to start HTTP server",
				"error", err,
			)
		}
	}()

	a.logger.Info("langchain-service application started successfully")

	return nil
}

// setupEventSubscribers 注册事件订阅者
func (a *App) setupEventSubscribers() {
	if a.eventBus == nil {
		return
	}

	// 文件事件触发摄入
	if a.ragService != nil {
		a.eventBus.SubscribeMultiple(
			[]events.EventType{
				events.DocumentFileCreated,
				events.DocumentFileModified,
			},
			a.ragService,
		)
		a.logger.Info("Ingestion service subscribed to document file events")
	}

	// 摄入结果推送给 WebSocket 客户端
	a.eventBus.SubscribeMultiple(
		[]events.EventType{
			events.DocumentIndexed,
			events.DocumentIndexFailed,
		},
		events.HandlerFunc(func(event events.Event) error {
			indexEvent, ok := event.(*events.DocumentIndexedEvent)
			if !ok {
				return nil
			}
			return a.wsHub.Broadcast(websocket.IndexNotification{
				Event:      string(indexEvent.EventType),
				Filename:   indexEvent.Filename,
				ChunkCount: indexEvent.ChunkCount,
				Error:      indexEvent.Error,
				Timestamp:  indexEvent.EventTime,
			})
		}),
	)
	a.logger.Info("Notification hub subscribed to index events")
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping langchain-service application")

	// 停止文件监听器
	if a.fileWatcher != nil {
		a.fileWatcher.Stop()
		a.logger.Info("File watcher stopped")
	}

	// 关闭事件总线
	if a.eventBus != nil {
		a.eventBus.Close()
		a.logger.Info("Event bus closed")
	}

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		return err
	}

	// 关闭向量存储连接
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("Failed to close vector store connection",
				"error", err,
			)
		}
	}

	// 关闭数据库连接
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database connection",
				"error", err,
			)
			return err
		}
	}

	a.logger.Info("langchain-service application stopped successfully")

	return nil
}
