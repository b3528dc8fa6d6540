package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/framecast/core/logger"
)

// Readiness verifies every check succeeds.
// Returns "READY" if all checks pass, 503 Service Unavailable if any fail.
func Readiness(log *slog.Logger, fn ...func(context.Context) error) http.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		for _, f := range fn {
			if err := f(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed",
					logger.Component("health"),
					logger.Error(err))
				writeText(w, http.StatusServiceUnavailable, "NOT READY")
				return
			}
		}

		writeText(w, http.StatusOK, "READY")
	}
}
