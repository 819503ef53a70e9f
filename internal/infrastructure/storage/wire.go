package storage

import (
	"github.com/google/wire"
)

// ProviderSet 存储基础设施提供者集合
var ProviderSet = wire.NewSet(
	OpenDB,
	NewDocumentRepository,
)
