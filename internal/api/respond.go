package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/venturelens/diligence-api/internal/errors"
)

// respondError maps application errors onto HTTP status codes with a
// consistent envelope. Validation errors carry the offending field so the
// caller can point at the bad questionnaire entry.
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeValidationError:
			status = http.StatusBadRequest
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeUnauthorized:
			status = http.StatusUnauthorized
		}

		body := gin.H{
			"error":     appErr.Message,
			"code":      appErr.Code,
			"timestamp": time.Now(),
		}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":     err.Error(),
		"code":      apperrors.ErrCodeInternalError,
		"timestamp": time.Now(),
	})
}
