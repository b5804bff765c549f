// Package httperr defines the per-status error response registry used by the
// HTTP layer.
//
// This file defines ErrorResponse, the single envelope every error surface
// shares. The same response value can be written as the standard JSON error
// envelope or as a rendered HTML page, chosen by Accept-header negotiation.
//
// Example JSON response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "Not Found: the requested resource was not found."
//	}
package httperr

import (
	"bytes"

	"github.com/gin-gonic/gin"

	"github.com/swinglabs/swing-error/internal/render"
)

// ErrorResponse is the standard error envelope for all recognized statuses.
//
// Fields:
//   - Status: the HTTP status on the wire; always equals the status used to
//     select the definition.
//   - RequestID: optional correlation ID echoed from X-Request-ID, used to
//     correlate server logs with client-side errors.
//   - Code: a stable, machine-readable string (see status.go constants).
//   - Message: a human-readable description, safe for display to users.
type ErrorResponse struct {
	Status int `json:"-"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see status.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"Not Found: the requested resource was not found."`

	// headers are extra response headers owned by the definition (e.g. Retry-After).
	headers map[string]string
	// page is the HTML template context used when the client prefers text/html.
	page render.Context
}

// Page returns the HTML template context this response renders with.
func (e *ErrorResponse) Page() render.Context { return e.page }

// write emits the response on c, negotiating between the JSON envelope and a
// rendered HTML page. It aborts the Gin chain so no later handler runs.
//
// A page-render failure is attached to the Gin context error list and the
// JSON envelope is written instead; the status on the wire never changes.
func (e *ErrorResponse) write(c *gin.Context, pages *render.Renderer) {
	for k, v := range e.headers {
		c.Header(k, v)
	}

	if pages != nil && c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
		var buf bytes.Buffer
		if err := pages.Page(&buf, e.page); err != nil {
			_ = c.Error(err)
		} else {
			c.Data(e.Status, "text/html; charset=utf-8", buf.Bytes())
			c.Abort()
			return
		}
	}

	c.AbortWithStatusJSON(e.Status, e)
}

// truncate returns s unchanged when within max length, otherwise it truncates
// s to max bytes and appends an ellipsis. A max <= 0 disables truncation.
//
// Note: This operates on bytes (not runes) which is acceptable for logging.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
