package mqhandler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	mqcontracts "inboxiq/contracts/mq"
	"inboxiq/internal/service"
	"inboxiq/pkg/util"
)

// BacklogProcessor walks a mailbox's stale emails.
type BacklogProcessor interface {
	ProcessBacklog(ctx context.Context, mailbox string) (*service.BacklogResult, error)
}

type SyncRequestedHandler struct {
	pipeline BacklogProcessor
	logger   *zap.Logger
}

func NewSyncRequestedHandler(pipeline BacklogProcessor, logger *zap.Logger) *SyncRequestedHandler {
	return &SyncRequestedHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

func (h *SyncRequestedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var payload mqcontracts.SyncRequestedEvent
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Error("Invalid SyncRequestedEvent, dropping",
			zap.String("raw", string(raw)),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Info("SyncRequestedHandler: walking backlog",
		zap.String("mailbox", payload.Mailbox),
	)

	result, err := h.pipeline.ProcessBacklog(ctx, payload.Mailbox)
	if err != nil {
		isRetryable, errType := util.IsRetryableError(err)
		h.logger.Error("Backlog walk failed",
			zap.String("mailbox", payload.Mailbox),
			zap.String("error_type", errType),
			zap.Bool("retryable", isRetryable),
			zap.Error(err),
		)
		if isRetryable {
			return err // nack → 重试
		}
		return nil
	}

	// 单封邮件的失败不触发整批重试，下一次触发会重新捞起
	h.logger.Info("Backlog walk finished",
		zap.String("mailbox", payload.Mailbox),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return nil
}
