// Package mcp 通过 MCP 协议暴露文档问答工具
package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/BadLiar37/langchain-service/internal/application/rag"
)

// MCPServer MCP 服务器
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	service *rag.Service
}

// NewServer 创建 MCP 服务器
func NewServer(service *rag.Service) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "langchain-service",
			Version: "0.1.0",
		},
		nil, // 使用默认能力
	)

	mcpServer := &MCPServer{
		server:  server,
		service: service,
	}

	// 注册工具：ask_documents
	mcp.AddTool(server, &mcp.Tool{
		Name: "ask_documents",
		Description: `Answer a natural-language question over the ingested document corpus using retrieval-augmented generation.

Parameters:
- question (string, required): The question to answer
- top_k (int, optional): Maximum number of retrieved chunks to consider (1-10, default 4)
- temperature (float, optional): Sampling temperature for generation (0.0-2.0, default 0.7)
- score_threshold (float, optional): Minimum relevance score for retrieved chunks (0.0-1.0, default 0.0)

Returns: answer text, provenance sources, and timing metrics.`,
	}, mcpServer.askDocumentsTool)

	// 注册工具：search_documents
	mcp.AddTool(server, &mcp.Tool{
		Name: "search_documents",
		Description: `Search the ingested document corpus by similarity without generating an answer.

Parameters:
- query (string, required): Natural language search query
- limit (int, optional): Maximum number of results (1-10, default 4)

Returns: matched documents with filenames, relevance scores, and excerpts.`,
	}, mcpServer.searchDocumentsTool)

	// 创建 SSE Handler
	handler := mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	mcpServer.handler = handler
	return mcpServer
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}
