package application

import (
	"github.com/google/wire"

	"github.com/BadLiar37/langchain-service/internal/application/rag"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	rag.ProviderSet,
)
