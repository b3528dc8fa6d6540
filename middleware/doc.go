// Package middleware provides net/http middleware for the broadcast server: request
// IDs, structured request logging and security headers.
//
// Every middleware has the func(http.Handler) http.Handler shape, so it plugs into
// chi or any other router:
//
//	r := chi.NewRouter()
//	r.Use(
//		middleware.RequestID(),
//		middleware.Logging(log),
//		middleware.SecurityHeaders(middleware.ViewerSecurity),
//	)
//
// The logging writer forwards http.Hijacker and http.Flusher, so WebSocket upgrades
// pass through it untouched. A hijacked request is logged with status 101.
package middleware
