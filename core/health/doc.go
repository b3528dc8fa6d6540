// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All checks pass
//   - NoContent: Returns 204 for minimal overhead
//
// Usage:
//
//	r.Get("/health/live", health.Liveness)
//	r.Get("/health/ready", health.Readiness(log, loop.Ready))
//	r.Get("/ping", health.NoContent)
//
// Checks must follow the func(context.Context) error signature:
//
//	func (l *Loop) Ready(ctx context.Context) error {
//		if !l.Running() {
//			return errNotRunning
//		}
//		return nil
//	}
package health
