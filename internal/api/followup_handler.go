package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inboxiq/internal/calendar"
	"inboxiq/internal/model"
)

// FollowUpManager drives follow-up status transitions.
type FollowUpManager interface {
	Complete(ctx context.Context, id int64) (*model.FollowUp, error)
	Reopen(ctx context.Context, id int64) (*model.FollowUp, error)
	ListByEmail(ctx context.Context, emailUID int64) ([]model.FollowUp, error)
	ListOpen(ctx context.Context, limit int) ([]model.FollowUp, error)
}

// CalendarCoordinator links follow-ups to calendar events.
type CalendarCoordinator interface {
	Sync(ctx context.Context, followUpID int64) (*calendar.SyncResult, error)
	Verify(ctx context.Context, followUpID int64) (*calendar.VerifyResult, error)
}

type FollowUpHandler struct {
	followUps FollowUpManager
	calendar  CalendarCoordinator
	logger    *zap.Logger
}

func NewFollowUpHandler(followUps FollowUpManager, coordinator CalendarCoordinator, logger *zap.Logger) *FollowUpHandler {
	return &FollowUpHandler{
		followUps: followUps,
		calendar:  coordinator,
		logger:    logger,
	}
}

// ListByEmail handles GET /emails/:uid/follow-ups.
func (h *FollowUpHandler) ListByEmail(c *gin.Context) {
	uid, err := parseUID(c)
	if err != nil {
		return
	}

	tasks, err := h.followUps.ListByEmail(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.FollowUp{}
	}
	c.JSON(http.StatusOK, gin.H{"follow_ups": tasks})
}

// ListOpen handles GET /follow-ups, ordered by due date.
func (h *FollowUpHandler) ListOpen(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	tasks, err := h.followUps.ListOpen(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []model.FollowUp{}
	}
	c.JSON(http.StatusOK, gin.H{"follow_ups": tasks})
}

// Complete handles POST /follow-ups/:id/complete. Completing twice
// answers 409.
func (h *FollowUpHandler) Complete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	task, err := h.followUps.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"follow_up": task})
}

// Reopen handles POST /follow-ups/:id/reopen.
func (h *FollowUpHandler) Reopen(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	task, err := h.followUps.Reopen(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"follow_up": task})
}

// SyncCalendar handles POST /follow-ups/:id/calendar. Idempotent: an
// already-linked task answers with already_synced.
func (h *FollowUpHandler) SyncCalendar(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	result, err := h.calendar.Sync(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// VerifyCalendar handles POST /follow-ups/:id/calendar/verify.
func (h *FollowUpHandler) VerifyCalendar(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	result, err := h.calendar.Verify(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, err
	}
	return id, nil
}
