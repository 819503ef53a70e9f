package rag

import (
	"github.com/google/wire"
)

// ProviderSet 查询引擎提供者集合
var ProviderSet = wire.NewSet(
	NewChunkingService,
	NewRetrievalService,
	NewModelGateway,
	NewQueryWorkflow,
	NewQueryPipeline,
	NewService,
)
