package tokenizer

import (
	"github.com/google/wire"
)

// ProviderSet 分词基础设施提供者集合
var ProviderSet = wire.NewSet(
	NewTiktokenCounter,
)
