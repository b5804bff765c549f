// Package httperr defines the per-status error response registry used by the
// HTTP layer.
//
// This file centralizes the recognized status codes and their symbolic error
// code constants. Every error response produced by this package carries both
// an HTTP status and one of these stable, machine-readable codes, giving
// clients a taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and mirror the HTTP status semantics.
//   - The recognized set is fixed: 400, 401, 403, 404, 405, 408, 410, 429, 500.
//     Extending it means adding a definition here, not registering at runtime.
//   - Default messages follow the "Status Text: explanation." shape so that a
//     plain-text or JSON body is self-describing without the status line.
package httperr

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stable error codes returned in the `code` field of every error envelope.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRequestTimeout   = "request_timeout"
	ErrCodeGone             = "gone"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
)

// Definition describes one recognized status code: the stable machine code,
// the default human-readable message, and the default HTML page context.
//
// A Definition is immutable once the registry is constructed; per-deployment
// customization happens through Override (see registry.go), never by mutating
// the table.
type Definition struct {
	Status int
	Code   string

	// Message is the default body text when the caller supplies none.
	Message string

	// Page fields feed the HTML template contract {Title, Header, Message, Redirect}.
	PageTitle    string
	PageHeader   string
	PageMessage  string
	PageRedirect string

	// ExtraHeaders are set on every response with this status (e.g. Retry-After).
	ExtraHeaders map[string]string
}

// titleCaser renders "too_many_requests" as "Too Many Requests" for page titles.
var titleCaser = cases.Title(language.English)

// defaultRedirect is the shared closing line on every error page.
const defaultRedirect = "Please return to the homepage."

// definitions is the fixed dispatch table for the recognized status set.
var definitions = map[int]Definition{
	http.StatusBadRequest: def(http.StatusBadRequest, ErrCodeBadRequest,
		"Bad Request: the request could not be processed.",
		"Sorry, your request could not be processed.", nil),
	http.StatusUnauthorized: def(http.StatusUnauthorized, ErrCodeUnauthorized,
		"Unauthorized: authentication is required.",
		"You need to sign in before you can access this page.", nil),
	http.StatusForbidden: def(http.StatusForbidden, ErrCodeForbidden,
		"Forbidden: you do not have permission to access this resource.",
		"You do not have permission to access this page.", nil),
	http.StatusNotFound: def(http.StatusNotFound, ErrCodeNotFound,
		"Not Found: the requested resource was not found.",
		"Sorry, the page you are looking for does not exist.", nil),
	http.StatusMethodNotAllowed: def(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
		"Method Not Allowed: this endpoint does not support that method.",
		"The page exists but does not support that request method.", nil),
	http.StatusRequestTimeout: def(http.StatusRequestTimeout, ErrCodeRequestTimeout,
		"Request Timeout: the server timed out waiting for the request.",
		"The server gave up waiting for your request to complete.", nil),
	http.StatusGone: def(http.StatusGone, ErrCodeGone,
		"Gone: the requested resource is no longer available.",
		"The page you are looking for has been permanently removed.", nil),
	http.StatusTooManyRequests: def(http.StatusTooManyRequests, ErrCodeRateLimited,
		"Too Many Requests: you have exceeded your request limit.",
		"Slow down. You have made too many requests in a short time.",
		map[string]string{"Retry-After": "1"}),
	http.StatusInternalServerError: def(http.StatusInternalServerError, ErrCodeInternal,
		"Internal Server Error: an unexpected error occurred.",
		"Something went wrong on our side. It is not you, it is us.", nil),
}

// def builds one table entry, deriving the page title from the code and the
// page header from the numeric status ("404 Error"), matching the shape the
// rendered pages have always used.
func def(status int, code, message, pageMessage string, extra map[string]string) Definition {
	return Definition{
		Status:       status,
		Code:         code,
		Message:      message,
		PageTitle:    titleCaser.String(strings.ReplaceAll(code, "_", " ")),
		PageHeader:   strconv.Itoa(status) + " Error",
		PageMessage:  pageMessage,
		PageRedirect: defaultRedirect,
		ExtraHeaders: extra,
	}
}

// Recognized reports whether status is a member of the fixed status set.
func Recognized(status int) bool {
	_, ok := definitions[status]
	return ok
}

// Statuses returns the recognized status codes in ascending order.
func Statuses() []int {
	out := make([]int, 0, len(definitions))
	for s := range definitions {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

// Lookup returns the Definition for status. The boolean is false when status
// is outside the recognized set.
func Lookup(status int) (Definition, bool) {
	d, ok := definitions[status]
	return d, ok
}
