package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(r *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/research", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsLocalDevOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	for _, origin := range []string{"http://localhost:4200", "http://127.0.0.1:5173"} {
		r := gin.New()
		r.Use(CORS())
		r.OPTIONS("/research", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		rec := preflight(r, origin)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNoContent)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
			t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, origin)
		}
	}
}

func TestCORSOriginsFromEnv(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://heraldry.example.org")

	r := gin.New()
	r.Use(CORS())
	r.OPTIONS("/research", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := preflight(r, "https://heraldry.example.org")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://heraldry.example.org" {
		t.Fatalf("unexpected allow-origin header: got=%q", got)
	}
	rec = preflight(r, "http://localhost:4200")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status for foreign origin: got=%d want=%d", rec.Code, http.StatusForbidden)
	}
}
