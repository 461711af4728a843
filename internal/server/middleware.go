package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"listing-marketplace/internal/auth"
	"listing-marketplace/services/listing/helpers"
	"listing-marketplace/utils"

	"github.com/gin-gonic/gin"
)

const traceIDKey = "trace_id"

// RequestLoggerMiddleware logs incoming requests with timing and a trace id
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	traceID := utils.TraceID(c.GetHeader(auth.TraceIDHeader))
	c.Set(traceIDKey, traceID)
	c.Header(auth.TraceIDHeader, traceID)
	c.Request = c.Request.WithContext(auth.WithTraceID(c.Request.Context(), traceID))

	c.Next() // process request

	fields := map[string]any{
		"method":   c.Request.Method,
		"path":     c.Request.URL.Path,
		"status":   c.Writer.Status(),
		"latency":  time.Since(start).String(),
		"trace_id": traceID,
	}
	if userID := c.GetString(helpers.UserIDKey); userID != "" {
		fields["user_id"] = userID
	}
	utils.Info("HTTP Request", fields)
}

// RequireIdentity verifies the bearer token and stores the caller id on the context
func RequireIdentity(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				utils.JSONError(c, http.StatusUnauthorized, "Unauthorized")
			} else {
				utils.JSONError(c, http.StatusUnauthorized, "Unable to verify identity")
				utils.Error("RequireIdentity: identity provider failure", map[string]any{
					"error":    err.Error(),
					"trace_id": c.GetString(traceIDKey),
				})
			}
			return
		}

		c.Set(helpers.UserIDKey, userID)
		c.Next()
	}
}
