// Package httpapi wires the HTTP transport (Gin) to the error-page registry,
// middleware, and demo routes. It centralizes cross-cutting concerns such as
// tracing, correlation IDs, logging/redaction, panic recovery, metrics, CORS,
// security headers, deadlines, and rate limiting, and binds each of them to
// the registry slot for its status code.
//
// Slot wiring (status -> trigger):
//
//	400 - request binding/validation failure
//	401 - missing or invalid bearer token on the protected group
//	403 - valid token without the required scope
//	404 - NoRoute
//	405 - NoMethod
//	408 - per-request deadline expired before a response was written
//	410 - routes registered through the retired-route handler
//	429 - token-bucket rate limiter exhausted
//	500 - panic recovery
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/swinglabs/swing-error/internal/config"
	"github.com/swinglabs/swing-error/internal/httperr"
	"github.com/swinglabs/swing-error/internal/http/middleware"
)

// RegisterRoutes attaches all middleware and endpoints to the given Gin
// engine and returns the registry backing the error slots.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger (500 slot)
//  5. Body size limiter
//  6. Metrics and /metrics endpoint
//  7. gzip (after /metrics so the Prometheus scrape stays plain)
//  8. Per-request deadline (408 slot)
//  9. Rate limiter per user/IP (429 slot)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, cfg config.Config) (*httperr.Registry, error) {
	reg, err := httperr.New(httperr.Options{
		DisableLogging: !cfg.ErrorLogEnabled,
		Overrides:      cfg.ErrorPages,
	})
	if err != nil {
		return nil, err
	}

	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction (error traffic carries the
	//    interesting headers, so scrub before emitting)
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
		},
	}))

	// 4) Panic recovery through the 500 slot
	r.Use(middleware.Recovery(reg))

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compress everything registered from here on
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) Per-request deadline feeding the 408 slot
	r.Use(middleware.Timeout(cfg.RequestTimeout, reg))

	// 9) Token-bucket rate limiter per user/IP feeding the 429 slot
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP(), reg)
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallback slots
	r.NoRoute(reg.Handler(http.StatusNotFound))
	r.NoMethod(reg.Handler(http.StatusMethodNotAllowed))

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	registerDemoRoutes(r, reg, cfg)

	return reg, nil
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
