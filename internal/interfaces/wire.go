package interfaces

import (
	"github.com/google/wire"

	"github.com/BadLiar37/langchain-service/internal/interfaces/http"
	"github.com/BadLiar37/langchain-service/internal/interfaces/mcp"
)

// ProviderSet Interfaces 层总 ProviderSet
var ProviderSet = wire.NewSet(
	http.ProviderSet,
	mcp.ProviderSet,
)
