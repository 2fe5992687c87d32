package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hotelpms/internal/pkg/response"
)

const headerRequestID = "X-Request-ID"

// RequestID echoes the caller's X-Request-ID or mints one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestID(c)
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set(headerRequestID, id)
		}
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger writes one access line per request.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
			"user_id":    UserID(c),
			"request_id": requestID(c),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// ErrorLogger recovers panics and logs errors attached to the context.
func ErrorLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequestError(log, c, start, "panic", err.Error()).
					WithField("stack", string(debug.Stack())).
					Error("request panic")
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			for _, err := range c.Errors {
				e := logRequestError(log, c, start, fmt.Sprintf("%v", err.Type), err.Error())
				if err.Meta != nil {
					e = e.WithField("meta", err.Meta)
				}
				e.Error("request error")
			}
		}()

		c.Next()
	}
}

func logRequestError(log logrus.FieldLogger, c *gin.Context, start time.Time, errType, message string) logrus.FieldLogger {
	return log.WithFields(logrus.Fields{
		"type":       errType,
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"query":      c.Request.URL.RawQuery,
		"user_id":    UserID(c),
		"role":       c.GetString(ctxRole),
		"request_id": requestID(c),
		"latency":    time.Since(start).String(),
		"error":      message,
	})
}

func requestID(c *gin.Context) string {
	return c.GetHeader(headerRequestID)
}
