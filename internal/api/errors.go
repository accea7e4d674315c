package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inboxiq/internal/calendar"
	"inboxiq/internal/intelligence"
	"inboxiq/internal/model"
	"inboxiq/internal/repository"
	"inboxiq/internal/service"
)

// respondError maps domain errors onto HTTP statuses in one place so
// every handler speaks the same dialect.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, intelligence.ErrGenerationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "generation already in progress"})
	case errors.Is(err, model.ErrAlreadyCompleted),
		errors.Is(err, model.ErrNotCompleted),
		errors.Is(err, model.ErrAlreadyLinked),
		errors.Is(err, model.ErrNotLinked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "sync already requested, try again later"})
	case errors.Is(err, calendar.ErrMissingDueDate):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, calendar.ErrCalendarUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "calendar bridge unavailable"})
	case errors.Is(err, repository.ErrStorageIntegrity):
		c.JSON(http.StatusConflict, gin.H{"error": "referenced record no longer exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
