// Package logger wraps zerolog with the constructors and context helpers
// used across the service.
//
// Request handlers obtain a request-scoped logger (carrying the trace id)
// with FromContext or FromRequest; long-lived components keep the *Logger
// they were constructed with.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger so the whole zerolog API is available on it.
type Logger struct {
	zerolog.Logger
}

// NewLogger builds a JSON logger writing to stdout. Every entry carries the
// role label, a timestamp and the calling function name.
func NewLogger(role string) *Logger {
	return New(os.Stdout, role, zerolog.DebugLevel)
}

// New is NewLogger with an explicit writer and minimum level.
func New(w io.Writer, role string, level zerolog.Level) *Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	l := zerolog.New(w).Level(level).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a copy of l that can be enriched without touching
// the parent.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromContext returns the logger attached to ctx by zerolog's WithContext.
// When none is attached zerolog falls back to its disabled default logger,
// so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

// Ctx returns the logger attached to ctx, or l when ctx carries none.
func (l *Logger) Ctx(ctx context.Context) *Logger {
	if ctx != nil {
		if reqLog := FromContext(ctx); reqLog.GetLevel() != zerolog.Disabled {
			return reqLog
		}
	}
	return l
}

func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}
