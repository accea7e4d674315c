package intelligence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inboxiq/internal/fingerprint"
	"inboxiq/internal/model"
	"inboxiq/internal/priority"
	"inboxiq/pkg/metrics"
)

// ErrGenerationInFlight signals that another worker is already generating
// an insight for the same email and content hash.
var ErrGenerationInFlight = errors.New("insight generation already in flight")

// InsightReader is the slice of the repository the generator needs.
type InsightReader interface {
	GetInsight(ctx context.Context, emailUID int64) (*model.Insight, error)
}

// InFlightGuard collapses duplicate concurrent generations for the same
// email+hash onto a single caller.
type InFlightGuard interface {
	AcquireOnce(ctx context.Context, operation, identity string) bool
	Release(ctx context.Context, operation, identity string)
}

// GeneratorConfig bundles the knobs the generator needs at construction.
type GeneratorConfig struct {
	ProviderTimeout time.Duration
}

// Generator produces insights: LLM-backed on the happy path, deterministic
// fallback on any provider failure. Generation is idempotent per content
// hash; the caller persists the result so the write can stay atomic with
// categories and follow-ups.
type Generator struct {
	provider Provider
	fallback Provider
	scorer   *priority.Scorer
	fp       *fingerprint.Fingerprinter
	insights InsightReader
	guard    InFlightGuard
	cfg      GeneratorConfig
	logger   *zap.Logger
}

func NewGenerator(
	provider Provider,
	fallback Provider,
	scorer *priority.Scorer,
	fp *fingerprint.Fingerprinter,
	insights InsightReader,
	guard InFlightGuard,
	cfg GeneratorConfig,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		provider: provider,
		fallback: fallback,
		scorer:   scorer,
		fp:       fp,
		insights: insights,
		guard:    guard,
		cfg:      cfg,
		logger:   logger,
	}
}

// Generate returns the insight for an email, reusing the stored one when
// the content hash is unchanged. cached reports a cache hit. A concurrent
// duplicate request returns ErrGenerationInFlight.
func (g *Generator) Generate(ctx context.Context, email *model.Email) (insight *model.Insight, cached bool, err error) {
	hash := g.fp.Hash(email)

	existing, err := g.insights.GetInsight(ctx, email.UID)
	if err != nil {
		return nil, false, fmt.Errorf("load insight: %w", err)
	}
	if existing != nil && !existing.Stale(hash) {
		metrics.IncrementInsightGeneration(existing.Provider, "cache_hit")
		g.logger.Debug("Insight cache hit",
			zap.Int64("email_uid", email.UID),
			zap.String("content_hash", hash),
		)
		return existing, true, nil
	}

	identity := fmt.Sprintf("%d:%s", email.UID, hash)
	if !g.guard.AcquireOnce(ctx, "insight", identity) {
		return nil, false, ErrGenerationInFlight
	}
	defer g.guard.Release(ctx, "insight", identity)

	insight = g.build(ctx, email, hash)
	metrics.IncrementInsightGeneration(insight.Provider, "generated")
	return insight, false, nil
}

func (g *Generator) build(ctx context.Context, email *model.Email, hash string) *model.Insight {
	var (
		analysis     *Analysis
		providerName = g.provider.Name()
		usedFallback bool
	)

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.ProviderTimeout)
	analysis, err := g.provider.Analyze(callCtx, email)
	cancel()

	if err != nil {
		// 统一处理所有失败类型：网络、超时、schema 都走回退
		g.logger.Warn("Provider analysis failed, using deterministic fallback",
			zap.Int64("email_uid", email.UID),
			zap.Error(err),
		)
		metrics.IncrementFallback("insight")
		analysis, _ = g.fallback.Analyze(ctx, email)
		providerName = g.fallback.Name()
		usedFallback = true
	}

	sig := priority.Signals{
		Subject:         email.Subject,
		Sender:          email.Sender,
		Summary:         analysis.Summary,
		ActionItemCount: len(analysis.ActionItems),
		HasAttachments:  len(email.Attachments) > 0,
	}
	var suggested *int
	if !usedFallback {
		suggested = analysis.Priority
	}
	score := g.scorer.Score(sig, suggested)

	return &model.Insight{
		EmailUID:      email.UID,
		Summary:       analysis.Summary,
		ActionItems:   analysis.ActionItems,
		PriorityScore: score,
		Provider:      providerName,
		GeneratedAt:   time.Now().UTC(),
		UsedFallback:  usedFallback,
		ContentHash:   hash,
	}
}
