package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BadLiar37/langchain-service/internal/domain/document"
	"github.com/BadLiar37/langchain-service/internal/domain/query"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
)

// greetingAnswer 问候路径的固定回答
const greetingAnswer = "Hello! I'm a RAG-powered assistant. " +
	"I can help you find information in the uploaded documents. " +
	"Just ask me a question!"

// noDocumentsFound 列表路径无命中时的固定回答
const noDocumentsFound = "No documents found matching your query."

// searchExcerptLimit 列表路径摘录的最大字符数
const searchExcerptLimit = 200

// 意图关键词，按序匹配：问候优先于检索，首个命中即定类
var (
	greetingKeywords = []string{"hello", "hey"}
	searchKeywords   = []string{"find", "search", "show", "list"}
)

// workflowState 工作流状态
type workflowState int

const (
	stateRoute workflowState = iota
	stateGreeting
	stateSearch
	stateSearchOnly
	stateFormatContext
	stateGenerateAnswer
	stateDone
)

// stageOutcome 节点执行结果标签
// 节点内部的失败被就地降级记录，不通过 outcome 传播
type stageOutcome int

const (
	outcomeGreeting stageOutcome = iota
	outcomeSearchIntent
	outcomeQuestionIntent
	outcomeCompleted
)

// transitionKey (状态, 结果) 二元组
type transitionKey struct {
	state   workflowState
	outcome stageOutcome
}

// transitions 静态转移表
// 不在表中的组合即非法转移
var transitions = map[transitionKey]workflowState{
	{stateRoute, outcomeGreeting}:             stateGreeting,
	{stateRoute, outcomeSearchIntent}:         stateSearch,
	{stateRoute, outcomeQuestionIntent}:       stateSearch,
	{stateGreeting, outcomeCompleted}:         stateDone,
	{stateSearch, outcomeSearchIntent}:        stateSearchOnly,
	{stateSearch, outcomeQuestionIntent}:      stateFormatContext,
	{stateSearchOnly, outcomeCompleted}:       stateDone,
	{stateFormatContext, outcomeCompleted}:    stateGenerateAnswer,
	{stateGenerateAnswer, outcomeCompleted}:   stateDone,
}

// workflowRun 一次工作流执行的可变状态
type workflowRun struct {
	q           *query.Query
	queryType   query.Type
	chunks      []document.Chunk
	contextText string
	sources     []query.Source
	answer      string
	model       string
	errMsg      string
}

// QueryWorkflow 按意图路由的查询工作流
// 状态机：Route → {Greeting | Search} → {SearchOnly | FormatContext → GenerateAnswer} → Done；
// 任意路径都收敛到统一结果信封，失败在节点内降级，从不越过工作流边界抛出
type QueryWorkflow struct {
	retrieval *RetrievalService
	gateway   *ModelGateway
	logger    *slog.Logger
}

// NewQueryWorkflow 创建查询工作流
func NewQueryWorkflow(retrieval *RetrievalService, gateway *ModelGateway) *QueryWorkflow {
	return &QueryWorkflow{
		retrieval: retrieval,
		gateway:   gateway,
		logger:    log.NewModuleLogger("rag", "workflow"),
	}
}

// Classify 意图分类
// 大小写不敏感的子串匹配，问候关键词先于检索关键词，都不命中归为问答
func Classify(text string) query.Type {
	lowered := strings.ToLower(text)

	for _, keyword := range greetingKeywords {
		if strings.Contains(lowered, keyword) {
			return query.TypeGreeting
		}
	}
	for _, keyword := range searchKeywords {
		if strings.Contains(lowered, keyword) {
			return query.TypeSearch
		}
	}
	return query.TypeQuestion
}

// Process 执行工作流
// 总是返回结果信封；执行期意外失败在此兜底转换为降级信封
func (w *QueryWorkflow) Process(ctx context.Context, q *query.Query) (result *query.AnswerResult) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Workflow execution panicked", "panic", r)
			result = &query.AnswerResult{
				Answer:   fmt.Sprintf("Error processing query: %v", r),
				Question: q.Text,
				Sources:  []query.Source{},
				Error:    fmt.Sprintf("%v", r),
			}
		}
	}()

	w.logger.Info("Processing query through workflow", "query", truncate(q.Text, 50))

	run := &workflowRun{q: q, queryType: query.TypeQuestion}

	state := stateRoute
	for state != stateDone {
		outcome := w.execute(ctx, state, run)

		next, ok := transitions[transitionKey{state, outcome}]
		if !ok {
			// 静态表之外的组合不可达，触达说明节点实现被破坏
			panic(fmt.Sprintf("illegal workflow transition from state %d with outcome %d", state, outcome))
		}
		state = next
	}

	w.logger.Info("Workflow execution completed", "query_type", run.queryType)

	return run.envelope()
}

// execute 执行单个状态节点并返回结果标签
func (w *QueryWorkflow) execute(ctx context.Context, state workflowState, run *workflowRun) stageOutcome {
	switch state {
	case stateRoute:
		return w.routeStage(run)
	case stateGreeting:
		return w.greetingStage(run)
	case stateSearch:
		return w.searchStage(ctx, run)
	case stateSearchOnly:
		return w.searchOnlyStage(run)
	case stateFormatContext:
		return w.formatContextStage(run)
	case stateGenerateAnswer:
		return w.generateAnswerStage(ctx, run)
	default:
		panic(fmt.Sprintf("unknown workflow state %d", state))
	}
}

// routeStage 意图分类节点
func (w *QueryWorkflow) routeStage(run *workflowRun) stageOutcome {
	run.queryType = Classify(run.q.Text)
	w.logger.Info("Query routed", "query_type", run.queryType)

	switch run.queryType {
	case query.TypeGreeting:
		return outcomeGreeting
	case query.TypeSearch:
		return outcomeSearchIntent
	default:
		return outcomeQuestionIntent
	}
}

// greetingStage 问候节点，完全绕过检索
func (w *QueryWorkflow) greetingStage(run *workflowRun) stageOutcome {
	run.answer = greetingAnswer
	run.sources = []query.Source{}
	run.contextText = ""
	return outcomeCompleted
}

// searchStage 检索节点，search 与 question 两种意图共用
// 检索失败记录错误后以空结果继续，不中止工作流
func (w *QueryWorkflow) searchStage(ctx context.Context, run *workflowRun) stageOutcome {
	chunks, err := w.retrieval.Search(ctx, run.q.Text, run.q.TopK, 0.0)
	if err != nil {
		w.logger.Error("Search stage failed", "error", err)
		run.errMsg = err.Error()
		run.chunks = nil
	} else {
		run.chunks = chunks
	}

	if run.queryType == query.TypeSearch {
		return outcomeSearchIntent
	}
	return outcomeQuestionIntent
}

// formatContextStage 上下文组装节点
// 空检索结果使用哨兵上下文继续走生成
func (w *QueryWorkflow) formatContextStage(run *workflowRun) stageOutcome {
	run.contextText = w.retrieval.FormatContext(run.chunks)
	run.sources = w.retrieval.Sources(run.chunks)
	w.logger.Info("Context formatted", "length", len(run.contextText))
	return outcomeCompleted
}

// generateAnswerStage 回答生成节点
// 生成失败记录错误并替换为降级回答，失败从不越过本节点
func (w *QueryWorkflow) generateAnswerStage(ctx context.Context, run *workflowRun) stageOutcome {
	generation, err := w.gateway.GenerateAnswer(ctx, run.q.Text, run.contextText, run.q.Temperature)
	if err != nil {
		w.logger.Error("Generate answer stage failed", "error", err)
		run.errMsg = err.Error()
		run.answer = fmt.Sprintf("Error generating answer: %s", err.Error())
		return outcomeCompleted
	}

	run.answer = generation.Answer
	run.model = generation.Model
	return outcomeCompleted
}

// searchOnlyStage 文档列表节点
// 渲染命中文档的编号清单与截断摘录，无命中时给出固定回答
func (w *QueryWorkflow) searchOnlyStage(run *workflowRun) stageOutcome {
	// 列表路径也回填 sources，编号与渲染清单一一对应，调用方无需解析答案文本
	run.sources = w.retrieval.Sources(run.chunks)

	if len(run.chunks) == 0 {
		run.answer = noDocumentsFound
		return outcomeCompleted
	}

	entries := make([]string, 0, len(run.chunks))
	for i, chunk := range run.chunks {
		score := 0.0
		if chunk.Metadata.RelevanceScore != nil {
			score = *chunk.Metadata.RelevanceScore
		}
		entries = append(entries, fmt.Sprintf("%d. %s (relevance: %.2f)\n   %s...",
			i+1, chunk.Metadata.Filename, score, chunk.Preview(searchExcerptLimit)))
	}

	run.answer = "Found documents:\n\n" + strings.Join(entries, "\n\n")
	return outcomeCompleted
}

// envelope 收敛为统一结果信封
func (run *workflowRun) envelope() *query.AnswerResult {
	sources := run.sources
	if sources == nil {
		sources = []query.Source{}
	}

	return &query.AnswerResult{
		Answer:      run.answer,
		Question:    run.q.Text,
		QueryType:   run.queryType,
		Sources:     sources,
		ContextUsed: run.contextText != "",
		Model:       run.model,
		Error:       run.errMsg,
	}
}
