package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/domain"
)

func Success(c *gin.Context, statusCode int, message string, data any) {
	body := gin.H{
		"success": true,
		"data":    data,
	}
	if message != "" {
		body["message"] = message
	}
	c.JSON(statusCode, body)
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   code,
		"message": message,
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   code,
		"message": message,
		"details": details,
	})
}

// FromError maps the domain error taxonomy onto HTTP. Anything unclassified
// is attached to the context for ErrorLogger and answered with a generic 500.
func FromError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		if len(verr.Details) > 0 {
			ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message, verr.Details)
			return
		}
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message)
	case errors.Is(err, domain.ErrValidation):
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// BadRequest answers malformed JSON or query input.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}
