// Package logger provides structured logging utilities built on Go's standard slog package.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/framecast/core/logger"
//
//	log := logger.New(
//		logger.WithDevelopment("framecast"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("capture loop started",
//		logger.Component("scheduler"),
//		logger.Interval(33*time.Millisecond),
//	)
//
// # Environment Configurations
//
//	// Development: text format, debug level, stdout
//	devLogger := logger.New(logger.WithDevelopment("framecast"))
//
//	// Production: JSON format, info level, stdout
//	prodLogger := logger.New(logger.WithProduction("framecast"))
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty input, and slog drops empty
// attributes, so they can be passed unconditionally:
//
//	log.Warn("session ended",
//		logger.SessionID(id),
//		logger.Error(err), // nil-safe
//		logger.Lagged(sub.Lagged()),
//	)
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//	log.Info("test", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
