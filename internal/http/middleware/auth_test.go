package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret"

// mintToken signs an HS256 token with the given claims.
func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// authRouter mounts RequireAuth in front of a handler that reports the userID
// context value back in the response body.
func authRouter(t *testing.T, opt AuthOptions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", RequireAuth(opt, silentRegistry(t)), func(c *gin.Context) {
		uid, _ := c.Get("userID")
		c.JSON(http.StatusOK, gin.H{"user": uid})
	})
	return r
}

func doAuth(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_MissingOrMalformedToken_401(t *testing.T) {
	r := authRouter(t, AuthOptions{Secret: testSecret})

	for _, header := range []string{
		"",                 // no header at all
		"Bearer",           // scheme without token
		"Bearer   ",        // blank token
		"Basic dXNlcjpwdw", // wrong scheme
	} {
		if w := doAuth(r, header); w.Code != http.StatusUnauthorized {
			t.Fatalf("Authorization=%q -> %d, want 401", header, w.Code)
		}
	}
}

func TestRequireAuth_BadSignature_401(t *testing.T) {
	r := authRouter(t, AuthOptions{Secret: testSecret})

	tok := mintToken(t, "a-different-secret", jwt.MapClaims{"sub": "alice"})
	if w := doAuth(r, "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad signature -> %d, want 401", w.Code)
	}
}

func TestRequireAuth_ExpiredToken_401(t *testing.T) {
	r := authRouter(t, AuthOptions{Secret: testSecret})

	tok := mintToken(t, testSecret, jwt.MapClaims{
		"sub": "alice",
		// well past the clock-skew leeway
		"exp": time.Now().Add(-10 * time.Minute).Unix(),
	})
	if w := doAuth(r, "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token -> %d, want 401", w.Code)
	}
}

func TestRequireAuth_MissingScope_403(t *testing.T) {
	r := authRouter(t, AuthOptions{Secret: testSecret, RequiredScope: "admin"})

	tok := mintToken(t, testSecret, jwt.MapClaims{
		"sub":   "bob",
		"scope": "read write",
	})
	w := doAuth(r, "Bearer "+tok)
	if w.Code != http.StatusForbidden {
		t.Fatalf("missing scope -> %d, want 403", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["code"] != "forbidden" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRequireAuth_ValidToken_PassesAndSetsUserID(t *testing.T) {
	r := authRouter(t, AuthOptions{Secret: testSecret, RequiredScope: "admin"})

	tok := mintToken(t, testSecret, jwt.MapClaims{
		"sub":   "carol",
		"scope": "read admin",
	})
	w := doAuth(r, "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token -> %d, want 200: %s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["user"] != "carol" {
		t.Fatalf("userID not propagated: %v", body)
	}
}

func TestRequireAuth_CaseInsensitiveScheme(t *testing.T) {
	r := authRouter(t, AuthOptions{Secret: testSecret})

	tok := mintToken(t, testSecret, jwt.MapClaims{"sub": "dave"})
	if w := doAuth(r, "bearer "+tok); w.Code != http.StatusOK {
		t.Fatalf("lowercase scheme -> %d, want 200", w.Code)
	}
}

func TestHasScope(t *testing.T) {
	claims := jwt.MapClaims{"scope": "read write admin"}
	if !hasScope(claims, "admin") || hasScope(claims, "delete") {
		t.Fatalf("hasScope failed on %v", claims)
	}
	if hasScope(jwt.MapClaims{}, "admin") {
		t.Fatalf("hasScope should be false without a scope claim")
	}
}
