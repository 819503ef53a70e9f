package websocket

import (
	"github.com/google/wire"
)

// ProviderSet WebSocket 提供者集合
var ProviderSet = wire.NewSet(
	NewHub,
)
