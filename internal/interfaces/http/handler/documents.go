package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/BadLiar37/langchain-service/internal/application/rag"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/extract"
	"github.com/BadLiar37/langchain-service/internal/infrastructure/log"
	"github.com/BadLiar37/langchain-service/internal/interfaces/http/response"
)

// DocumentHandler 文档摄入与查询处理器
type DocumentHandler struct {
	service  *rag.Service
	registry *extract.Registry
	logger   *slog.Logger
}

// NewDocumentHandler 创建文档处理器
func NewDocumentHandler(service *rag.Service, registry *extract.Registry) *DocumentHandler {
	return &DocumentHandler{
		service:  service,
		registry: registry,
		logger:   log.NewModuleLogger("http", "documents"),
	}
}

// UploadResponse 上传结果
type UploadResponse struct {
	Filename      string `json:"filename"`
	Status        string `json:"status"`
	ChunksCreated int    `json:"chunks_created"`
	Message       string `json:"message"`
}

// Upload 上传并摄入文档
// @Summary 上传文档
// @Tags 文档
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "文档文件"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /documents/upload [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "缺少上传文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "无法读取上传文件")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "无法读取上传文件")
		return
	}

	// 不支持的格式与超限文件在触达引擎前拒绝
	text, err := h.registry.ExtractText(fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) || errors.Is(err, extract.ErrFileTooLarge) {
			response.ErrorWithDetail(c, http.StatusBadRequest, 100002, "文件格式或大小不被支持", err.Error())
			return
		}
		response.ErrorWithDetail(c, http.StatusBadRequest, 100002, "文本提取失败", err.Error())
		return
	}

	result, err := h.service.IngestText(c.Request.Context(), text, fileHeader.Filename, extract.FileType(fileHeader.Filename))
	if err != nil {
		h.logger.Error("Upload ingestion failed", "filename", fileHeader.Filename, "error", err)
		response.ErrorWithDetail(c, http.StatusInternalServerError, 100003, "文档摄入失败", err.Error())
		return
	}

	response.Success(c, UploadResponse{
		Filename:      result.Filename,
		Status:        "success",
		ChunksCreated: result.ChunkCount,
		Message:       "File uploaded successfully",
	})
}

// AddChunksRequest 文本摄入请求
type AddChunksRequest struct {
	Text     string `json:"text" binding:"required"`
	Metadata struct {
		Filename string `json:"filename"`
		FileType string `json:"file_type"`
	} `json:"metadata"`
}

// AddChunksResponse 文本摄入结果
type AddChunksResponse struct {
	Status      string   `json:"status"`
	ChunksAdded int      `json:"chunks_added"`
	ChunkIDs    []string `json:"chunk_ids"`
}

// AddChunks 摄入一段原始文本
// @Summary 摄入文本
// @Tags 文档
// @Accept json
// @Produce json
// @Param body body AddChunksRequest true "文本与元数据"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /documents/chunks [post]
func (h *DocumentHandler) AddChunks(c *gin.Context) {
	var req AddChunksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 100001, "参数错误")
		return
	}

	result, err := h.service.IngestText(c.Request.Context(), req.Text, req.Metadata.Filename, req.Metadata.FileType)
	if err != nil {
		h.logger.Error("Add chunks failed", "error", err)
		response.ErrorWithDetail(c, http.StatusInternalServerError, 100003, "文本摄入失败", err.Error())
		return
	}

	response.Success(c, AddChunksResponse{
		Status:      "success",
		ChunksAdded: result.ChunkCount,
		ChunkIDs:    result.ChunkIDs,
	})
}

// List 分页列出已摄入的文档
// @Summary 文档列表
// @Tags 文档
// @Produce json
// @Param page query int false "页码，从 1 开始"
// @Param pageSize query int false "每页条数"
// @Success 200 {object} response.Response
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		response.Error(c, http.StatusBadRequest, 100001, "页码无效")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		response.Error(c, http.StatusBadRequest, 100001, "每页条数无效")
		return
	}

	records, total, err := h.service.ListDocuments(c.Request.Context(), (page-1)*pageSize, pageSize)
	if err != nil {
		response.ErrorWithDetail(c, http.StatusInternalServerError, 100004, "查询文档列表失败", err.Error())
		return
	}

	response.SuccessWithPage(c, records, page, pageSize, total)
}

// DatabaseStats 文档登记统计
// @Summary 文档统计
// @Tags 文档
// @Produce json
// @Success 200 {object} response.Response
// @Router /documents/stats [get]
func (h *DocumentHandler) DatabaseStats(c *gin.Context) {
	stats, err := h.service.DatabaseStats(c.Request.Context())
	if err != nil {
		response.ErrorWithDetail(c, http.StatusInternalServerError, 100004, "查询统计失败", err.Error())
		return
	}
	response.Success(c, stats)
}
