package http

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/BadLiar37/langchain-service/internal/infrastructure/config"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
	"github.com/BadLiar37/langchain-service/internal/interfaces/http/handler"
	"github.com/BadLiar37/langchain-service/internal/interfaces/http/middleware"
	"github.com/BadLiar37/langchain-service/internal/interfaces/mcp"

	_ "github.com/BadLiar37/langchain-service/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	serverCfg *config.ServerConfig,
	documentHandler *handler.DocumentHandler,
	queryHandler *handler.QueryHandler,
	notificationHandler *handler.NotificationHandler,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	router := gin.Default()

	logger := log.NewModuleLogger("http", "server")

	router.Use(middleware.EnsureUTF8Body())

	// 注册路由
	api := router.Group("/api/v1")
	{
		// 文档摄入与查询
		api.POST("/documents/upload", documentHandler.Upload)
		api.POST("/documents/chunks", documentHandler.AddChunks)
		api.GET("/documents", documentHandler.List)
		api.GET("/documents/stats", documentHandler.DatabaseStats)

		// 问答
		api.POST("/query/ask", queryHandler.Ask)
		api.POST("/query/ask-classified", queryHandler.AskClassified)
		api.GET("/collection/stats", queryHandler.CollectionStats)
		api.POST("/llm/test", queryHandler.TestLLM)
	}

	// 索引通知推送
	router.GET("/ws/notifications", notificationHandler.Serve)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:   router,
		httpPort: serverCfg.HTTPPort,
		logger:   logger,
	}
}

// Start 启动服务器
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:    s.httpPort,
		Handler: s.router,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	return s.server.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
