package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/telemetry"
)

// genericServerMessage replaces 5xx messages so internal detail never reaches
// the caller. The real message is still logged.
const genericServerMessage = "An unexpected error occurred"

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response. Server-side (>=500) messages are
// sanitized in the response body.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	telemetry.Error("http.error", fields)

	body := message
	if status >= http.StatusInternalServerError {
		body = genericServerMessage
		details = nil
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: body,
			Details: details,
		},
	})
}
