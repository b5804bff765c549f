// Package httperr defines the per-status error response registry used by the
// HTTP layer.
//
// This file implements the Registry itself: for each recognized status code it
// holds a response definition and, on dispatch, emits exactly one error-level
// log record and writes the negotiated response. Handler slots (Gin's NoRoute,
// NoMethod, recovery, rate limiting, and friends) bind to fixed codes via
// Handler().
//
// Design notes:
//   - Every dispatch is stateless and independent; the Registry is immutable
//     after construction and safe for concurrent use.
//   - Passing a status outside the recognized set is a configuration error:
//     Build and Dispatch return ErrUnrecognizedStatus without writing
//     anything, and Handler panics at registration time.
//   - Logging is fire-and-forget; a logging backend failure is the logging
//     collaborator's problem, not this component's.
package httperr

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/swinglabs/swing-error/internal/render"
)

// ErrUnrecognizedStatus is returned when a status code outside the recognized
// set reaches the registry. It signals a wiring mistake, not a runtime fault.
var ErrUnrecognizedStatus = errors.New("status code not in the recognized set")

// maxExcerptLen caps the body excerpt included in each error log record.
const maxExcerptLen = 256

// errorPages counts dispatched error responses by status and code. It exists
// alongside the generic HTTP metrics so dashboards can watch the error
// surface without status-label arithmetic.
var errorPages = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "error_pages_total",
		Help: "Total number of error responses dispatched by the registry.",
	},
	[]string{"status", "code"},
)

func init() {
	prometheus.MustRegister(errorPages)
}

// Override customizes the rendered page for one status code. Empty fields
// keep the definition's default.
type Override struct {
	Title    string
	Header   string
	Message  string
	Redirect string
}

// Options configures a Registry.
type Options struct {
	// Pages renders HTML error documents. Nil uses the embedded templates.
	Pages *render.Renderer
	// Logger receives the per-dispatch error records. Nil uses the global logger.
	Logger *zerolog.Logger
	// DisableLogging turns off the per-dispatch error record (page text only).
	DisableLogging bool
	// Overrides replaces page wording per status. Unrecognized statuses are
	// rejected by New.
	Overrides map[int]Override
}

// Registry maps each recognized status code to its response definition and
// dispatches error responses on behalf of the framework's handler slots.
type Registry struct {
	defs       map[int]Definition
	pages      *render.Renderer
	logger     zerolog.Logger
	logEnabled bool
}

// New builds a Registry from the fixed definition table, applying any
// per-status page overrides. An override keyed by an unrecognized status is a
// configuration error.
func New(opts Options) (*Registry, error) {
	defs := make(map[int]Definition, len(definitions))
	for s, d := range definitions {
		defs[s] = d
	}
	for s, ov := range opts.Overrides {
		d, ok := defs[s]
		if !ok {
			return nil, fmt.Errorf("httperr: override for %d: %w", s, ErrUnrecognizedStatus)
		}
		if ov.Title != "" {
			d.PageTitle = ov.Title
		}
		if ov.Header != "" {
			d.PageHeader = ov.Header
		}
		if ov.Message != "" {
			d.PageMessage = ov.Message
		}
		if ov.Redirect != "" {
			d.PageRedirect = ov.Redirect
		}
		defs[s] = d
	}

	pages := opts.Pages
	if pages == nil {
		var err error
		if pages, err = render.New(); err != nil {
			return nil, err
		}
	}
	lg := log.Logger
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	return &Registry{
		defs:       defs,
		pages:      pages,
		logger:     lg,
		logEnabled: !opts.DisableLogging,
	}, nil
}

// MustNew is New for wiring paths where options are known-good.
func MustNew(opts Options) *Registry {
	r, err := New(opts)
	if err != nil {
		panic(err)
	}
	return r
}

// Build constructs the ErrorResponse for status. An empty message falls back
// to the per-status default. The only failure mode is an unrecognized status.
//
// Build does not log and does not touch the network; Dispatch owns both.
func (r *Registry) Build(status int, message string) (*ErrorResponse, error) {
	d, ok := r.defs[status]
	if !ok {
		return nil, fmt.Errorf("httperr: build %d: %w", status, ErrUnrecognizedStatus)
	}
	if message == "" {
		message = d.Message
	}
	return &ErrorResponse{
		Status:  d.Status,
		Code:    d.Code,
		Message: message,
		headers: d.ExtraHeaders,
		page: render.Context{
			Title:    d.PageTitle,
			Header:   d.PageHeader,
			Message:  d.PageMessage,
			Redirect: d.PageRedirect,
		},
	}, nil
}

// Dispatch is the handler-slot entry point: it builds the response for
// status, emits exactly one error-level log record (status, code, request
// context, truncated body excerpt, and cause when non-nil), and writes the
// negotiated response.
//
// For an unrecognized status nothing is written or logged and
// ErrUnrecognizedStatus is returned; the caller decides whether that aborts
// startup (Handler does) or the single request.
func (r *Registry) Dispatch(c *gin.Context, status int, cause error) error {
	return r.DispatchMessage(c, status, "", cause)
}

// DispatchMessage is Dispatch with an explicit body message replacing the
// per-status default. Used by slots that know more than the status alone
// (e.g. request binding failures).
func (r *Registry) DispatchMessage(c *gin.Context, status int, message string, cause error) error {
	resp, err := r.Build(status, message)
	if err != nil {
		return err
	}
	resp.RequestID = c.Writer.Header().Get("X-Request-ID")

	if r.logEnabled {
		r.logger.Error().
			Int("status", resp.Status).
			Str("code", resp.Code).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", resp.RequestID).
			Str("excerpt", truncate(resp.Message, maxExcerptLen)).
			Err(cause).
			Msg("error response")
	}
	errorPages.WithLabelValues(strconv.Itoa(resp.Status), resp.Code).Inc()

	resp.write(c, r.pages)
	return nil
}

// Handler binds a fixed status to a Gin handler slot (NoRoute, NoMethod,
// retired routes). It panics for an unrecognized status so the mistake
// surfaces at registration time, not mid-request.
func (r *Registry) Handler(status int) gin.HandlerFunc {
	h, err := r.HandlerWithError(status)
	if err != nil {
		panic(fmt.Sprintf("httperr: Handler(%d): %v", status, err))
	}
	return h
}

// HandlerWithError is Handler for callers that assemble routes dynamically
// and prefer an error over a registration-time panic.
func (r *Registry) HandlerWithError(status int) (gin.HandlerFunc, error) {
	if _, ok := r.defs[status]; !ok {
		return nil, fmt.Errorf("httperr: handler for %d: %w", status, ErrUnrecognizedStatus)
	}
	return func(c *gin.Context) {
		_ = r.Dispatch(c, status, nil)
	}, nil
}
