// Package api is the gin HTTP surface over the intelligence services.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	insightHandler *InsightHandler,
	draftHandler *DraftHandler,
	followUpHandler *FollowUpHandler,
	syncHandler *SyncHandler,
	db *pgxpool.Pool,
) *Router {
	r := gin.Default()
	r.Use(TraceMiddleware(), MetricsMiddleware())

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Insights
	r.GET("/mailboxes/:mailbox/insights", insightHandler.List)
	r.GET("/emails/:uid/insight", insightHandler.Get)
	r.POST("/emails/:uid/insight", insightHandler.Regenerate)

	// Drafts
	r.POST("/emails/:uid/draft", draftHandler.Compose)
	r.GET("/emails/:uid/draft", draftHandler.Get)
	r.DELETE("/emails/:uid/draft", draftHandler.Delete)
	r.POST("/emails/:uid/draft/sent", draftHandler.MarkSent)

	// Follow-ups
	r.GET("/emails/:uid/follow-ups", followUpHandler.ListByEmail)
	r.GET("/follow-ups", followUpHandler.ListOpen)
	r.POST("/follow-ups/:id/complete", followUpHandler.Complete)
	r.POST("/follow-ups/:id/reopen", followUpHandler.Reopen)
	r.POST("/follow-ups/:id/calendar", followUpHandler.SyncCalendar)
	r.POST("/follow-ups/:id/calendar/verify", followUpHandler.VerifyCalendar)

	// Manual sync
	r.POST("/mailboxes/:mailbox/sync", syncHandler.Trigger)

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
