package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github/itish2003/docquery/models"
	"github/itish2003/docquery/services"
)

const maxRecentUsage = 100

// RAGController handles the HTTP requests for the query API. It depends on
// the RAGService to perform the actual business logic.
type RAGController struct {
	ragService services.RAGService
	logger     *zap.Logger
}

// NewRAGController creates a new RAGController.
func NewRAGController(service services.RAGService, logger *zap.Logger) *RAGController {
	return &RAGController{
		ragService: service,
		logger:     logger,
	}
}

// Query is the Gin handler for POST /query.
// Every failure is reported through the "error" field the page renders.
func (c *RAGController) Query(ctx *gin.Context) {
	var req models.QueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.QueryResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	response, err := c.ragService.Query(ctx.Request.Context(), req.Question)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrEmptyQuestion) {
			status = http.StatusBadRequest
		}
		c.logger.Error("controller: query failed", zap.Error(err))
		ctx.JSON(status, models.QueryResponse{Error: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// SwitchMode is the Gin handler for POST /switch-mode.
func (c *RAGController) SwitchMode(ctx *gin.Context) {
	var req models.ModeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.ModeResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	response, err := c.ragService.SwitchMode(ctx.Request.Context(), req.Mode)
	if err != nil {
		c.logger.Error("controller: mode switch failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, models.ModeResponse{Error: err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetMode is the Gin handler for GET /mode.
func (c *RAGController) GetMode(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.ModeResponse{Success: true, Mode: c.ragService.Mode()})
}

// ListDocuments is the Gin handler for GET /documents.
func (c *RAGController) ListDocuments(ctx *gin.Context) {
	response, err := c.ragService.ListDocuments(ctx.Request.Context())
	if err != nil {
		c.logger.Error("controller: listing documents failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve documents"})
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// Usage is the Gin handler for GET /usage. With ?recent=N the latest N
// queries are included.
func (c *RAGController) Usage(ctx *gin.Context) {
	limit := 0
	if raw, ok := ctx.GetQuery("recent"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxRecentUsage {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("recent must be between 0 and %d", maxRecentUsage)})
			return
		}
		limit = n
	}

	response, err := c.ragService.UsageSummary(ctx.Request.Context())
	if err != nil {
		c.logger.Error("controller: usage summary failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve usage"})
		return
	}
	if limit > 0 {
		recent, err := c.ragService.RecentUsage(ctx.Request.Context(), limit)
		if err != nil {
			c.logger.Error("controller: recent usage failed", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve usage"})
			return
		}
		response.Recent = recent
	}
	ctx.JSON(http.StatusOK, response)
}
