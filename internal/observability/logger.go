package observability

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
)

// basic global logger, JSON to stdout.
var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Setup adjusts the global log level. Unknown levels leave it at the default.
func Setup(level string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}

func Logger() *zerolog.Logger {
	return &logger
}

// WithRequestID stores a request_id in the context, both as a plain value and
// as a field on the context logger.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyRequestID, requestID)
	l := logger.With().Str("request_id", requestID).Logger()
	return l.WithContext(ctx)
}

// RequestIDFromContext returns the request_id, or "" when none was set.
func RequestIDFromContext(ctx context.Context) string {
	reqID, _ := ctx.Value(ctxKeyRequestID).(string)
	return reqID
}

// LoggerFromContext adds request_id if present.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &logger
}
