package observability

import (
	"context"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

// global logger, JSON to stdout.
var logger = newLogger()

func newLogger() zerolog.Logger {
	// Marshal pkg/errors stack traces when a call site uses .Stack().
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}

	return zerolog.New(os.Stdout).With().
		Str("service", "edutron-api").
		Timestamp().
		Logger()
}

func Logger() zerolog.Logger {
	return logger
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// LoggerFromContext returns the global logger, tagged with the request_id
// if one is present.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	reqID, _ := ctx.Value(ctxKeyRequestID).(string)
	if reqID == "" {
		return logger
	}
	return logger.With().Str("request_id", reqID).Logger()
}
