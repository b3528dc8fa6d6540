package middleware

import (
	"maps"
	"net/http"
)

// SecurityHeadersConfig configures the security headers middleware.
type SecurityHeadersConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool

	// ContentTypeOptions controls X-Content-Type-Options header
	ContentTypeOptions string

	// FrameOptions controls X-Frame-Options header
	FrameOptions string

	// ContentSecurityPolicy controls Content-Security-Policy header
	ContentSecurityPolicy string

	// ReferrerPolicy controls Referrer-Policy header
	ReferrerPolicy string

	// PermissionsPolicy controls Permissions-Policy header
	PermissionsPolicy string

	// CrossOriginResourcePolicy controls Cross-Origin-Resource-Policy header
	CrossOriginResourcePolicy string

	// CustomHeaders allows adding additional custom headers
	CustomHeaders map[string]string
}

// ViewerSecurity suits the bundled viewer page: inline script, same-origin
// WebSocket and blob: images for decoded frames.
var ViewerSecurity = SecurityHeadersConfig{
	ContentTypeOptions:        "nosniff",
	FrameOptions:              "SAMEORIGIN",
	ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' blob: data:; connect-src 'self' ws: wss:",
	ReferrerPolicy:            "strict-origin-when-cross-origin",
	PermissionsPolicy:         "geolocation=(), microphone=(), camera=()",
	CrossOriginResourcePolicy: "same-origin",
}

// SecurityHeaders sets the configured headers on every response. Empty fields are skipped.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	headers := map[string]string{
		"X-Content-Type-Options":       cfg.ContentTypeOptions,
		"X-Frame-Options":              cfg.FrameOptions,
		"Content-Security-Policy":      cfg.ContentSecurityPolicy,
		"Referrer-Policy":              cfg.ReferrerPolicy,
		"Permissions-Policy":           cfg.PermissionsPolicy,
		"Cross-Origin-Resource-Policy": cfg.CrossOriginResourcePolicy,
	}
	maps.Copy(headers, cfg.CustomHeaders)
	maps.DeleteFunc(headers, func(_, v string) bool { return v == "" })

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip == nil || !cfg.Skip(r) {
				h := w.Header()
				for k, v := range headers {
					h.Set(k, v)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
