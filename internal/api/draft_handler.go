package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inboxiq/internal/model"
)

// DraftManager is the draft lifecycle surface the API exposes.
type DraftManager interface {
	Compose(ctx context.Context, emailUID int64) (*model.Draft, error)
	Get(ctx context.Context, emailUID int64) (*model.Draft, error)
	Delete(ctx context.Context, emailUID int64) error
	MarkSent(ctx context.Context, emailUID int64) (*model.Draft, error)
}

type DraftHandler struct {
	drafts DraftManager
	logger *zap.Logger
}

func NewDraftHandler(drafts DraftManager, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{
		drafts: drafts,
		logger: logger,
	}
}

// Compose handles POST /emails/:uid/draft. Regeneration replaces the
// stored draft body.
func (h *DraftHandler) Compose(c *gin.Context) {
	uid, err := parseUID(c)
	if err != nil {
		return
	}

	draft, err := h.drafts.Compose(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// Get handles GET /emails/:uid/draft.
func (h *DraftHandler) Get(c *gin.Context) {
	uid, err := parseUID(c)
	if err != nil {
		return
	}

	draft, err := h.drafts.Get(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// Delete handles DELETE /emails/:uid/draft.
func (h *DraftHandler) Delete(c *gin.Context) {
	uid, err := parseUID(c)
	if err != nil {
		return
	}

	if err := h.drafts.Delete(c.Request.Context(), uid); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkSent handles POST /emails/:uid/draft/sent. Idempotent: the first
// send timestamp sticks.
func (h *DraftHandler) MarkSent(c *gin.Context) {
	uid, err := parseUID(c)
	if err != nil {
		return
	}

	draft, err := h.drafts.MarkSent(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}
