// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the per-request deadline that feeds the 408 handler
// slot. A deadline is attached to the request context; handlers are expected
// to honor ctx cancellation and return without writing when the deadline
// fires. The middleware then dispatches the Request Timeout slot through the
// registry.
//
// Notes:
//   - The handler is NOT run on a separate goroutine; that keeps the
//     gin.ResponseWriter single-threaded and race-free. A handler that
//     ignores its context simply finishes late and wins the write.
//   - Slots already written (any status) are left untouched even when the
//     deadline expired during the handler.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swinglabs/swing-error/internal/httperr"
)

// Timeout returns a Gin middleware that bounds each request by d and
// dispatches the registry's 408 slot when the deadline expires before the
// handler writes a response.
//
// A d <= 0 disables the deadline entirely.
func Timeout(d time.Duration, reg *httperr.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			_ = reg.Dispatch(c, http.StatusRequestTimeout, ctx.Err())
		}
	}
}
