package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/framecast/middleware"
)

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	t.Run("viewer preset", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		middleware.SecurityHeaders(middleware.ViewerSecurity)(noop).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
		assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "connect-src 'self' ws: wss:")
	})

	t.Run("empty values are skipped and custom headers added", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		cfg := middleware.SecurityHeadersConfig{
			ContentTypeOptions: "nosniff",
			CustomHeaders:      map[string]string{"X-Stream": "framecast"},
		}
		middleware.SecurityHeaders(cfg)(noop).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "framecast", rec.Header().Get("X-Stream"))
		_, present := rec.Header()["X-Frame-Options"]
		assert.False(t, present)
	})

	t.Run("skip", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		cfg := middleware.ViewerSecurity
		cfg.Skip = func(*http.Request) bool { return true }
		middleware.SecurityHeaders(cfg)(noop).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Empty(t, rec.Header().Get("X-Content-Type-Options"))
	})
}
