package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	outerSawAbort := false

	r := gin.New()
	r.Use(Recovery(newTestLogger(&logs)), func(c *gin.Context) {
		c.Next()
		outerSawAbort = c.IsAborted()
	})
	r.GET("/api/Orders/:docEntry", func(c *gin.Context) { panic("ledger offline") })
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || logs.Len() != 0 {
		t.Fatalf("healthy request: status %d, logs %q", w.Code, logs.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/Orders/7", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body pkg.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q: %v", w.Body.String(), err)
	}
	if body.Code != domain.CodeServer || body.Message != "internal server error" {
		t.Errorf("body = %+v", body)
	}
	if outerSawAbort {
		t.Error("outer middleware resumed after the panic")
	}
	for _, want := range []string{"panic recovered", "ledger offline", "route=/api/Orders/:docEntry", "stack="} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("log missing %q:\n%s", want, logs.String())
		}
	}
}
