package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"listing-marketplace/internal/listingerrors"
	"listing-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// UserIDKey is the gin context key holding the verified caller id
const UserIDKey = "user_id"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	message := "invalid request payload"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, describeFieldError(fe))
		}
		message = message + ": " + strings.Join(details, "; ")
	}
	utils.JSONError(c, http.StatusBadRequest, message)
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "listingtype":
		return fe.Field() + " must be sale or rent"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	var upstream *listingerrors.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusInternalServerError, upstream.Error()
	}

	message := "Internal Server Error"
	var domainErr *listingerrors.Error
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch {
	case errors.Is(err, listingerrors.ErrUnauthorized):
		return http.StatusUnauthorized, message
	case errors.Is(err, listingerrors.ErrNotFound):
		return http.StatusNotFound, message
	case errors.Is(err, listingerrors.ErrValidation):
		return http.StatusBadRequest, message
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// HandleServiceError writes the mapped error response and logs it
func HandleServiceError(c *gin.Context, handlerName, logMessage string, err error, ctx map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, message)

	fields := map[string]any{"handler": handlerName, "status": status, "error": err.Error()}
	for k, v := range ctx {
		fields[k] = v
	}
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+logMessage, fields)
		return
	}
	utils.Warn(handlerName+": "+logMessage, fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// CallerID returns the verified user id set by the auth middleware
func CallerID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
