package extract

import (
	"github.com/google/wire"
)

// ProviderSet 文本提取提供者集合
var ProviderSet = wire.NewSet(
	NewRegistry,
)
