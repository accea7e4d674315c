package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SyncRequester accepts manual mailbox re-sync triggers.
type SyncRequester interface {
	Trigger(ctx context.Context, mailbox string) error
}

type SyncHandler struct {
	trigger SyncRequester
	logger  *zap.Logger
}

func NewSyncHandler(trigger SyncRequester, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		trigger: trigger,
		logger:  logger,
	}
}

// Trigger handles POST /mailboxes/:mailbox/sync. Inside the cooldown
// window the request answers 429 and is dropped, not queued.
func (h *SyncHandler) Trigger(c *gin.Context) {
	mailbox := c.Param("mailbox")
	if mailbox == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing mailbox"})
		return
	}

	if err := h.trigger.Trigger(c.Request.Context(), mailbox); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "sync requested", "mailbox": mailbox})
}
