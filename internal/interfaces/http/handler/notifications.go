package handler

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
	ws "github.com/BadLiar37/langchain-service/internal/infrastructure/websocket"
)

// NotificationHandler 索引通知 WebSocket 处理器
type NotificationHandler struct {
	hub      *ws.Hub
	upgrader gorillaws.Upgrader
	logger   *slog.Logger
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(hub *ws.Hub) *NotificationHandler {
	return &NotificationHandler{
		hub: hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 本地服务，不校验来源
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log.NewModuleLogger("http", "notifications"),
	}
}

// Serve 升级连接并推送索引通知
// GET /ws/notifications
func (h *NotificationHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	client := &ws.Connection{Send: make(chan []byte, 16)}
	h.hub.Register(client)

	// 写循环：把广播数据推给客户端
	go func() {
		defer conn.Close()
		for data := range client.Send {
			if err := conn.WriteMessage(gorillaws.TextMessage, data); err != nil {
				return
			}
		}
	}()

	// 读循环：只用于感知连接关闭
	go func() {
		defer h.hub.Unregister(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
