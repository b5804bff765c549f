// Demo routes.
//
// The repository ships a small set of routes that deliberately trip each
// error slot, mirroring the demo project that accompanies the error pages.
// They double as living documentation: hit them with Accept: text/html to see
// the rendered pages, or with the default Accept for the JSON envelope.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swinglabs/swing-error/internal/config"
	"github.com/swinglabs/swing-error/internal/httperr"
	"github.com/swinglabs/swing-error/internal/http/middleware"
)

// echoRequest is the payload for POST /demo/echo; a missing message trips the
// 400 slot via binding validation.
type echoRequest struct {
	Message string `json:"message" binding:"required"`
}

// maxDemoDelay bounds /demo/slow so a stray query value cannot pin a worker.
const maxDemoDelay = 2 * time.Minute

// registerDemoRoutes mounts the error-slot demo endpoints plus the preview
// route and, when a JWT secret is configured, the protected group guarding
// the 401/403 slots.
func registerDemoRoutes(r *gin.Engine, reg *httperr.Registry, cfg config.Config) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "swing-error",
			"pages":   httperr.Statuses(),
		})
	})

	// Preview any registered error page directly. /errors/404 renders the
	// 404 page with status 404.
	r.GET("/errors/:code", func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil || !httperr.Recognized(code) {
			_ = reg.DispatchMessage(c, http.StatusNotFound,
				"Not Found: no error page is registered for that code.", err)
			return
		}
		_ = reg.Dispatch(c, code, nil)
	})

	demo := r.Group("/demo")
	{
		// 400: binding failure
		demo.POST("/echo", func(c *gin.Context) {
			var req echoRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				_ = reg.DispatchMessage(c, http.StatusBadRequest,
					"Bad Request: body must be JSON with a non-empty \"message\".", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": req.Message})
		})

		// 408: handler that honors its deadline; ?delay= controls the work
		demo.GET("/slow", func(c *gin.Context) {
			delay := 50 * time.Millisecond
			if q := c.Query("delay"); q != "" {
				d, err := time.ParseDuration(q)
				if err != nil || d < 0 || d > maxDemoDelay {
					_ = reg.DispatchMessage(c, http.StatusBadRequest,
						"Bad Request: delay must be a duration between 0 and 2m.", err)
					return
				}
				delay = d
			}
			select {
			case <-c.Request.Context().Done():
				// Deadline hit; the Timeout middleware dispatches 408.
				return
			case <-time.After(delay):
				c.JSON(http.StatusOK, gin.H{"slept": delay.String()})
			}
		})

		// 410: a retired route
		demo.GET("/legacy", reg.Handler(http.StatusGone))

		// 500: a handler that panics
		demo.GET("/panic", func(c *gin.Context) {
			panic(errors.New("demo panic"))
		})
	}

	// 401/403: protected group, enabled only when a secret is configured.
	if cfg.Auth.JWTSecret != "" {
		admin := r.Group("/admin", middleware.RequireAuth(middleware.AuthOptions{
			Secret:        cfg.Auth.JWTSecret,
			RequiredScope: cfg.Auth.RequiredScope,
		}, reg))
		admin.GET("/status", func(c *gin.Context) {
			uid, _ := c.Get("userID")
			c.JSON(http.StatusOK, gin.H{"status": "ok", "user": uid})
		})
	}
}
