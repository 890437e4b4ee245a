// Package observability builds the zap logger the binaries log with.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/alchimist/internal/config"
)

// LoggerName is the root name every logger carries.
const LoggerName = "alchimist"

// NewLoggerTo creates a logger writing encoded entries to w. Binaries pass
// stderr so command output on stdout stays machine-readable. "json" uses the
// production encoder; "console" the development encoder with colored levels.
// Both stamp ISO8601 times and attach stack traces from error level on.
//
// Precondition: w must be non-nil and safe for concurrent writes.
// Postcondition: Returns a logger named LoggerName, or an error for an unknown
// level or format.
func NewLoggerTo(cfg config.LoggingConfig, w zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var enc zapcore.Encoder
	switch cfg.Format {
	case "json":
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	case "console":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	core := zapcore.NewCore(enc, w, zap.NewAtomicLevelAt(level))
	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(w),
	).Named(LoggerName), nil
}
