package llm

import "github.com/google/wire"

// ProviderSet 模型服务客户端 ProviderSet
var ProviderSet = wire.NewSet(
	NewClient,
)
