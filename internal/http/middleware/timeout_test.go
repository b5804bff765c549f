package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestTimeout_SlowHandler_408(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(10*time.Millisecond, silentRegistry(t)))

	// The handler honors ctx cancellation and returns without writing.
	r.GET("/slow", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			return
		case <-time.After(time.Second):
			c.String(http.StatusOK, "late")
		}
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	if w.Code != http.StatusRequestTimeout {
		t.Fatalf("slow handler -> %d, want 408", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["code"] != "request_timeout" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestTimeout_FastHandler_Unaffected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(time.Second, silentRegistry(t)))
	r.GET("/fast", func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			t.Fatalf("deadline not attached to request context")
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("fast handler -> %d %q", w.Code, w.Body.String())
	}
}

func TestTimeout_ResponseAlreadyWritten_Untouched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(5*time.Millisecond, silentRegistry(t)))

	// Handler writes before the deadline check; the late deadline must not
	// replace the response it produced.
	r.GET("/wrote", func(c *gin.Context) {
		time.Sleep(20 * time.Millisecond)
		c.String(http.StatusCreated, "already written")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wrote", nil))

	if w.Code != http.StatusCreated || w.Body.String() != "already written" {
		t.Fatalf("written response replaced: %d %q", w.Code, w.Body.String())
	}
}

func TestTimeout_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(0, silentRegistry(t)))
	r.GET("/free", func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); ok {
			t.Fatalf("deadline attached despite disabled timeout")
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/free", nil))

	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
}
