// Package respond maps domain errors to HTTP responses for the API
// handlers. Nothing here leaks hashes, internals or stack traces.
package respond

import (
	"errors"
	"net/http"

	"tenanthub/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes the status and body matching err's domain type.
func Error(c *gin.Context, log *zap.Logger, err error) {
	var (
		notFound     *domain.ErrNotFound
		unauthorized *domain.ErrUnauthorized
		conflict     *domain.ErrConflict
		validation   *domain.ErrValidation
	)

	switch {
	case errors.As(err, &notFound):
		log.Debug("not found", zap.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &unauthorized):
		log.Warn("unauthorized", zap.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		log.Debug("conflict", zap.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		log.Debug("validation error", zap.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
