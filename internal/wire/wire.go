//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/BadLiar37/langchain-service/internal/application"
	"github.com/BadLiar37/langchain-service/internal/application/rag"
	"github.com/BadLiar37/langchain-service/internal/infrastructure"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/llm"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/tokenizer"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/vector"
	"github.com/BadLiar37/langchain-service/internal/interfaces"
)

// InitializeAll 初始化所有服务（HTTP + MCP）
func InitializeAll() (*App, error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层
		NewApp,                     // 组合所有服务的应用结构

		// 基础设施具体类型到应用层接口的绑定
		wire.Bind(new(rag.VectorStore), new(*vector.Store)),
		wire.Bind(new(rag.CompletionClient), new(*llm.Client)),
		wire.Bind(new(rag.TokenCounter), new(*tokenizer.TiktokenCounter)),
	)
	return nil, nil
}
