package handler

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BadLiar37/langchain-service/internal/application/rag"
	"github.com/BadLiar37/langchain-service/internal/domain/query"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/llm"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
	"github.com/BadLiar37/langchain-service/internal/interfaces/http/response"
)

// QueryHandler 问答处理器
type QueryHandler struct {
	service   *rag.Service
	llmClient *llm.Client
	logger    *slog.Logger
}

// NewQueryHandler 创建问答处理器
func NewQueryHandler(service *rag.Service, llmClient *llm.Client) *QueryHandler {
	return &QueryHandler{
		service:   service,
		llmClient: llmClient,
		logger:    log.NewModuleLogger("http", "query"),
	}
}

// AskRequest 问答请求
// 未给出的可调参数使用默认值，越界值在边界处拒绝
type AskRequest struct {
	Question       string   `json:"question" binding:"required"`
	TopK           *int     `json:"top_k"`
	Temperature    *float64 `json:"temperature"`
	ScoreThreshold *float64 `json:"score_threshold"`
}

// buildQuery 填充默认值并做边界校验
func (r *AskRequest) buildQuery() (*query.Query, error) {
	topK := query.DefaultTopK
	if r.TopK != nil {
		topK = *r.TopK
	}
	temperature := query.DefaultTemperature
	if r.Temperature != nil {
		temperature = *r.Temperature
	}
	threshold := query.DefaultScoreThreshold
	if r.ScoreThreshold != nil {
		threshold = *r.ScoreThreshold
	}
	return query.NewQuery(r.Question, topK, temperature, threshold)
}

// Ask 线性流水线问答
// @Summary 问答（线性流水线）
// @Tags 问答
// @Accept json
// @Produce json
// @Param body body AskRequest true "问题与参数"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /query/ask [post]
func (h *QueryHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "参数错误")
		return
	}

	q, err := req.buildQuery()
	if err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, 100001, "参数越界", err.Error())
		return
	}

	// 降级结果同样以成功状态返回，失败编码在信封的 error 字段
	result := h.service.Ask(c.Request.Context(), q)
	response.Success(c, result)
}

// AskClassified 意图分类工作流问答
// @Summary 问答（意图分类工作流）
// @Tags 问答
// @Accept json
// @Produce json
// @Param body body AskRequest true "问题与参数"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /query/ask-classified [post]
func (h *QueryHandler) AskClassified(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "参数错误")
		return
	}

	q, err := req.buildQuery()
	if err != nil {
		response.ErrorWithDetail(c, http.StatusBadRequest, 100001, "参数越界", err.Error())
		return
	}

	result := h.service.AskClassified(c.Request.Context(), q)
	response.Success(c, result)
}

// CollectionStats 向量集合统计
// @Summary 集合统计
// @Tags 问答
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /collection/stats [get]
func (h *QueryHandler) CollectionStats(c *gin.Context) {
	stats, err := h.service.CollectionStats(c.Request.Context())
	if err != nil {
		response.ErrorWithDetail(c, http.StatusInternalServerError, 100004, "查询集合统计失败", err.Error())
		return
	}
	response.Success(c, stats)
}

// TestLLM 模型服务连通性检测
// @Summary 模型连通性检测
// @Tags 问答
// @Produce json
// @Success 200 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /llm/test [post]
func (h *QueryHandler) TestLLM(c *gin.Context) {
	if err := h.llmClient.TestConnection(c.Request.Context()); err != nil {
		response.ErrorWithDetail(c, http.StatusBadGateway, 100005, "模型服务不可达", err.Error())
		return
	}
	response.Success(c, gin.H{"status": "ok", "model": h.llmClient.Model()})
}
