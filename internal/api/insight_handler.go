package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inboxiq/internal/model"
)

// InsightReader serves stored insights and their categories.
type InsightReader interface {
	GetByEmailUID(ctx context.Context, emailUID int64) (*model.Insight, error)
	ListByMailbox(ctx context.Context, mailbox string, limit, offset int) ([]model.Insight, error)
}

// CategoryReader lists an email's categories.
type CategoryReader interface {
	ListByEmailUID(ctx context.Context, emailUID int64) ([]model.Category, error)
}

// EmailProcessor regenerates the full intelligence bundle for one email.
type EmailProcessor interface {
	ProcessEmail(ctx context.Context, uid int64) (*model.Insight, error)
}

type InsightHandler struct {
	insights   InsightReader
	categories CategoryReader
	pipeline   EmailProcessor
	logger     *zap.Logger
}

func NewInsightHandler(insights InsightReader, categories CategoryReader, pipeline EmailProcessor, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		insights:   insights,
		categories: categories,
		pipeline:   pipeline,
		logger:     logger,
	}
}

// List handles GET /mailboxes/:mailbox/insights, ordered by priority.
func (h *InsightHandler) List(c *gin.Context) {
	mailbox := c.Param("mailbox")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	insights, err := h.insights.ListByMailbox(c.Request.Context(), mailbox, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	if insights == nil {
		insights = []model.Insight{}
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

// Get handles GET /emails/:uid/insight with categories folded in.
func (h *InsightHandler) Get(c *gin.Context) {
	uid, err := parseUID(c)
	if err != nil {
		return
	}

	insight, err := h.insights.GetByEmailUID(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	categories, err := h.categories.ListByEmailUID(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}

	c.JSON(http.StatusOK, gin.H{
		"insight":    insight,
		"categories": categories,
	})
}

// Regenerate handles POST /emails/:uid/insight. A fresh cached insight
// comes back unchanged; a concurrent generation answers 409.
func (h *InsightHandler) Regenerate(c *gin.Context) {
	uid, err := parseUID(c)
	if err != nil {
		return
	}

	insight, err := h.pipeline.ProcessEmail(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insight": insight})
}

func parseUID(c *gin.Context) (int64, error) {
	uid, err := strconv.ParseInt(c.Param("uid"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email uid"})
		return 0, err
	}
	return uid, nil
}
