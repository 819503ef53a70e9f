package watcher

import (
	"github.com/google/wire"
)

// ProviderSet 文件监听提供者集合
var ProviderSet = wire.NewSet(
	NewEventBus,
	NewFileWatcher,
)
