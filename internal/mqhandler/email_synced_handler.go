// Package mqhandler consumes broker events and drives the pipeline.
package mqhandler

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	mqcontracts "inboxiq/contracts/mq"
	"inboxiq/internal/intelligence"
	"inboxiq/internal/model"
	"inboxiq/pkg/util"
)

const maxRetries = 5 // 最大重试次数

// EmailProcessor runs the full derivation for one stored email.
type EmailProcessor interface {
	ProcessEmail(ctx context.Context, uid int64) (*model.Insight, error)
}

// RetryTracker counts handler attempts per message key.
type RetryTracker interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

type EmailSyncedHandler struct {
	pipeline     EmailProcessor
	retryCounter RetryTracker
	logger       *zap.Logger
}

func NewEmailSyncedHandler(pipeline EmailProcessor, retryCounter RetryTracker, logger *zap.Logger) *EmailSyncedHandler {
	return &EmailSyncedHandler{
		pipeline:     pipeline,
		retryCounter: retryCounter,
		logger:       logger,
	}
}

func (h *EmailSyncedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	// --------------------------
	// Step 1: decode payload
	// --------------------------
	var payload mqcontracts.EmailSyncedEvent
	if err := json.Unmarshal(raw, &payload); err != nil {
		// 坏消息重试也没用，直接吃掉
		h.logger.Error("Invalid EmailSyncedEvent, dropping",
			zap.String("raw", string(raw)),
			zap.Error(err),
		)
		return nil
	}

	h.logger.Info("EmailSyncedHandler: received email",
		zap.Int64("email_uid", payload.EmailUID),
		zap.String("mailbox", payload.Mailbox),
	)

	// --------------------------
	// Step 2: retry count
	// --------------------------
	retryKey := util.FormatRetryKey("email_synced", payload.EmailUID)
	retryCount, _ := h.retryCounter.IncrementAndGet(ctx, retryKey)

	// --------------------------
	// Step 3: run the pipeline
	// --------------------------
	_, err := h.pipeline.ProcessEmail(ctx, payload.EmailUID)
	if err != nil {
		return h.handleProcessError(ctx, err, retryKey, retryCount, payload.EmailUID)
	}

	// --------------------------
	// Step 4: cleanup & finish
	// --------------------------
	if err := h.retryCounter.Reset(ctx, retryKey); err != nil {
		h.logger.Warn("Failed to reset retry counter", zap.String("key", retryKey), zap.Error(err))
	}
	return nil
}

func (h *EmailSyncedHandler) handleProcessError(ctx context.Context, err error, retryKey string, retryCount int64, emailUID int64) error {
	// 另一个 worker 正在处理同一封邮件 → ack
	if errors.Is(err, intelligence.ErrGenerationInFlight) {
		h.logger.Info("Generation already in flight, skip",
			zap.Int64("email_uid", emailUID),
		)
		return nil
	}

	isRetryable, errType := util.IsRetryableError(err)
	h.logger.Warn("Pipeline error",
		zap.Int64("email_uid", emailUID),
		zap.String("error_type", errType),
		zap.Bool("retryable", isRetryable),
		zap.Int64("retry", retryCount),
		zap.Error(err),
	)

	if retryCount > maxRetries {
		h.logger.Warn("Max retries exceeded, giving up",
			zap.Int64("email_uid", emailUID),
		)
		if resetErr := h.retryCounter.Reset(ctx, retryKey); resetErr != nil {
			h.logger.Warn("Failed to reset retry counter", zap.Error(resetErr))
		}
		return nil // ack
	}

	if !isRetryable {
		return nil // ack → 吃掉
	}
	return err // nack → 重试
}
