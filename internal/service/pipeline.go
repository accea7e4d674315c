// Package service orchestrates the per-email intelligence flow.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"inboxiq/internal/intelligence"
	"inboxiq/internal/model"
)

const backlogBatchSize = 200

// EmailSource reads stored emails and the stale-work queue.
type EmailSource interface {
	GetByUID(ctx context.Context, uid int64) (*model.Email, error)
	ListStale(ctx context.Context, mailbox string, limit int) ([]int64, error)
}

// InsightGenerator is the cache-aware derivation entry point.
type InsightGenerator interface {
	Generate(ctx context.Context, email *model.Email) (*model.Insight, bool, error)
}

// BundleWriter persists one email's derived records atomically.
type BundleWriter interface {
	SaveInsightBundle(ctx context.Context, insight *model.Insight, categories []model.Category, followUps []model.FollowUp) error
}

// CursorStore tracks the last fully processed uid per mailbox.
type CursorStore interface {
	GetCursor(ctx context.Context, mailbox string) (*model.SyncCursor, error)
	AdvanceCursor(ctx context.Context, mailbox string, uid int64) error
}

// Pipeline runs the full derivation for one email: insight, categories
// and follow-ups, saved in a single transaction.
type Pipeline struct {
	emails      EmailSource
	generator   InsightGenerator
	categorizer *intelligence.Categorizer
	scheduler   *intelligence.Scheduler
	store       BundleWriter
	cursors     CursorStore
	logger      *zap.Logger

	maxConcurrent int
}

func NewPipeline(
	emails EmailSource,
	generator InsightGenerator,
	categorizer *intelligence.Categorizer,
	scheduler *intelligence.Scheduler,
	store BundleWriter,
	cursors CursorStore,
	maxConcurrent int,
	logger *zap.Logger,
) *Pipeline {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Pipeline{
		emails:        emails,
		generator:     generator,
		categorizer:   categorizer,
		scheduler:     scheduler,
		store:         store,
		cursors:       cursors,
		logger:        logger,
		maxConcurrent: maxConcurrent,
	}
}

// ProcessEmail derives and persists intelligence for one stored email.
// A fresh cached insight short-circuits without any writes. A duplicate
// request for the same email and content returns
// intelligence.ErrGenerationInFlight.
func (p *Pipeline) ProcessEmail(ctx context.Context, uid int64) (*model.Insight, error) {
	email, err := p.emails.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	insight, cached, err := p.generator.Generate(ctx, email)
	if err != nil {
		return nil, err
	}
	if cached {
		return insight, nil
	}

	categories := p.categorizer.Categorize(email, insight)
	followUps := p.scheduler.Derive(email, insight, time.Now().UTC())

	if err := p.store.SaveInsightBundle(ctx, insight, categories, followUps); err != nil {
		return nil, err
	}

	p.logger.Info("Email processed",
		zap.Int64("email_uid", uid),
		zap.String("provider", insight.Provider),
		zap.Int("priority_score", insight.PriorityScore),
		zap.Int("follow_ups", len(followUps)),
	)
	return insight, nil
}

// BacklogResult summarizes one backlog walk.
type BacklogResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// ProcessBacklog walks every email in the mailbox whose insight is
// missing or stale, with at most maxConcurrent derivations in flight.
// Emails another worker is already generating are counted as skipped.
func (p *Pipeline) ProcessBacklog(ctx context.Context, mailbox string) (*BacklogResult, error) {
	uids, err := p.emails.ListStale(ctx, mailbox, backlogBatchSize)
	if err != nil {
		return nil, err
	}

	var (
		result BacklogResult
		mu     sync.Mutex
		wg     sync.WaitGroup
		sem    = make(chan struct{}, p.maxConcurrent)
	)

	for _, uid := range uids {
		select {
		case <-ctx.Done():
			wg.Wait()
			return &result, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := p.ProcessEmail(ctx, uid)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Processed++
			case errors.Is(err, intelligence.ErrGenerationInFlight):
				result.Skipped++
			default:
				result.Failed++
				p.logger.Warn("Backlog email failed",
					zap.String("mailbox", mailbox),
					zap.Int64("email_uid", uid),
					zap.Error(err),
				)
			}
		}(uid)
	}
	wg.Wait()

	if result.Failed == 0 && len(uids) > 0 {
		last := uids[len(uids)-1]
		if err := p.cursors.AdvanceCursor(ctx, mailbox, last); err != nil {
			p.logger.Warn("Failed to advance cursor",
				zap.String("mailbox", mailbox),
				zap.Int64("uid", last),
				zap.Error(err),
			)
		}
	}

	p.logger.Info("Backlog walk finished",
		zap.String("mailbox", mailbox),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return &result, nil
}
