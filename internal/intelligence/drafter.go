package intelligence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"inboxiq/internal/model"
	"inboxiq/pkg/metrics"
)

// Composer builds reply drafts on demand: LLM-backed, templated fallback.
type Composer struct {
	provider Provider
	fallback Provider
	cfg      GeneratorConfig
	logger   *zap.Logger
}

func NewComposer(provider, fallback Provider, cfg GeneratorConfig, logger *zap.Logger) *Composer {
	return &Composer{
		provider: provider,
		fallback: fallback,
		cfg:      cfg,
		logger:   logger,
	}
}

// Compose returns a fresh draft for the email. It never fails over to an
// error for provider trouble: the template path always yields a body.
func (c *Composer) Compose(ctx context.Context, email *model.Email, insight *model.Insight, prefs map[string]string) *model.Draft {
	providerName := c.provider.Name()
	usedFallback := false

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.ProviderTimeout)
	reply, err := c.provider.ComposeReply(callCtx, email, insight, prefs)
	cancel()

	if err != nil {
		c.logger.Warn("Provider drafting failed, using template fallback",
			zap.Int64("email_uid", email.UID),
			zap.Error(err),
		)
		metrics.IncrementFallback("draft")
		reply, _ = c.fallback.ComposeReply(ctx, email, insight, prefs)
		providerName = c.fallback.Name()
		usedFallback = true
	}

	return &model.Draft{
		EmailUID:     email.UID,
		Body:         reply.Body,
		Provider:     providerName,
		GeneratedAt:  time.Now().UTC(),
		Confidence:   reply.Confidence,
		UsedFallback: usedFallback,
	}
}
