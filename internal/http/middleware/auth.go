// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication for protected route
// groups, feeding the 401 and 403 handler slots:
//
//   - missing/malformed/invalid token        → 401 Unauthorized
//   - valid token without the required scope → 403 Forbidden
//
// Tokens are JWTs signed with a shared HS256 secret. Only HS256 is accepted
// to prevent algorithm confusion; a small leeway absorbs clock skew between
// token issuer and this service. On success the subject claim is stored under
// the "userID" Gin context key, where the access logger and the rate limiter
// already look for it.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/swinglabs/swing-error/internal/httperr"
)

// maxClockSkew is the accepted clock drift between token issuer and server.
const maxClockSkew = 30 * time.Second

// AuthOptions configures RequireAuth.
//
// Secret is the shared HS256 signing secret; RequiredScope, when non-empty,
// must appear in the token's space-separated "scope" claim for the request to
// pass the 403 check.
type AuthOptions struct {
	Secret        string
	RequiredScope string
}

// RequireAuth returns a Gin middleware that guards a route group with JWT
// bearer authentication. Failures never write ad-hoc bodies; they dispatch
// the matching registry slot so the 401/403 surface is uniform with every
// other error page.
func RequireAuth(opt AuthOptions, reg *httperr.Registry) gin.HandlerFunc {
	keyFn := func(t *jwt.Token) (any, error) { return []byte(opt.Secret), nil }

	return func(c *gin.Context) {
		raw, ok := extractBearerToken(c.Request)
		if !ok {
			_ = reg.Dispatch(c, http.StatusUnauthorized, nil)
			return
		}

		// Only allow HS256; prevents algorithm confusion attacks.
		token, err := jwt.Parse(raw, keyFn,
			jwt.WithValidMethods([]string{"HS256"}),
			jwt.WithLeeway(maxClockSkew),
		)
		if err != nil || !token.Valid {
			_ = reg.Dispatch(c, http.StatusUnauthorized, err)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			_ = reg.Dispatch(c, http.StatusUnauthorized, nil)
			return
		}

		if opt.RequiredScope != "" && !hasScope(claims, opt.RequiredScope) {
			_ = reg.Dispatch(c, http.StatusForbidden, nil)
			return
		}

		if sub, _ := claims["sub"].(string); sub != "" {
			c.Set("userID", sub)
		}
		c.Next()
	}
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
// The scheme comparison is case-insensitive per RFC 9110.
func extractBearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

// hasScope reports whether the space-separated "scope" claim contains want.
func hasScope(claims jwt.MapClaims, want string) bool {
	raw, _ := claims["scope"].(string)
	for _, s := range strings.Fields(raw) {
		if s == want {
			return true
		}
	}
	return false
}
