package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func corsRouter(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(CORS(origins))
	r.GET("/api/Images/:code", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestCORS(t *testing.T) {
	const ui = "http://localhost:4200"

	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		wantStatus  int
		wantAllow   string
		wantMethods bool
	}{
		{name: "no origin", origins: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "wildcard", origins: []string{"*"}, method: http.MethodGet, origin: ui, wantStatus: http.StatusOK, wantAllow: "*"},
		{name: "listed origin", origins: []string{"https://admin.example.com", ui}, method: http.MethodGet, origin: ui, wantStatus: http.StatusOK, wantAllow: ui},
		{name: "unlisted origin", origins: []string{"https://admin.example.com"}, method: http.MethodGet, origin: ui, wantStatus: http.StatusOK},
		{name: "empty list", method: http.MethodGet, origin: ui, wantStatus: http.StatusOK},
		{name: "preflight", origins: []string{ui}, method: http.MethodOptions, origin: ui, wantStatus: http.StatusNoContent, wantAllow: ui, wantMethods: true},
		{name: "preflight refused", origins: []string{"https://admin.example.com"}, method: http.MethodOptions, origin: ui, wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/Images/IMG1", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			corsRouter(tt.origins).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
			if got := w.Header().Get("Access-Control-Allow-Methods") != ""; got != tt.wantMethods {
				t.Errorf("Allow-Methods set = %v, want %v", got, tt.wantMethods)
			}
			if tt.wantAllow != "" {
				if got := w.Header().Get("Access-Control-Expose-Headers"); got != "X-Request-ID, Content-Disposition" {
					t.Errorf("Expose-Headers = %q", got)
				}
				if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
					t.Errorf("Allow-Credentials = %q, want unset", got)
				}
			}
			if tt.origin != "" && w.Header().Get("Vary") != "Origin" {
				t.Errorf("Vary = %q, want Origin", w.Header().Get("Vary"))
			}
		})
	}
}

func TestCORS_PreflightHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/Images/IMG1", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	w := httptest.NewRecorder()
	corsRouter([]string{"*"}).ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Authorization, Content-Type, Accept, X-Request-ID" {
		t.Errorf("Allow-Headers = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, DELETE, OPTIONS" {
		t.Errorf("Allow-Methods = %q", got)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("Max-Age = %q", got)
	}
}
