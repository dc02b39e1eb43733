package logging

import (
	"log/slog"
	"path/filepath"
	"time"

	"playshot/internal/services"
)

type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// File records the base name of path under key; directories are implied by
// the stage that logs it.
func File(key, path string) Attr { return slog.String(key, filepath.Base(path)) }

// Error records err under "error". A nil error is logged as "<nil>" so the
// key is always present.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// ErrorKind records the classification of err (see services.Kind).
func ErrorKind(err error) Attr { return slog.String(FieldErrorKind, services.Kind(err)) }

// Args converts attrs to the variadic form slog.Logger methods take.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewComponentLogger tags logger with component. A nil logger yields a no-op
// logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// Event labels a warning with a stable type, the next step for the operator,
// and what the run lost because of it.
type Event struct {
	Type   string
	Hint   string
	Impact string
}

const (
	defaultHint   = "check the run log for details"
	defaultImpact = "run continued with reduced output"
)

func (e Event) attrs() []Attr {
	hint, impact := e.Hint, e.Impact
	if hint == "" {
		hint = defaultHint
	}
	if impact == "" {
		impact = defaultImpact
	}
	return []Attr{
		String(FieldEventType, e.Type),
		String(FieldErrorHint, hint),
		String(FieldImpact, impact),
	}
}

// Warn logs msg at warn level tagged with ev, followed by attrs.
func Warn(logger *slog.Logger, msg string, ev Event, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Warn(msg, Args(append(ev.attrs(), attrs...)...)...)
}
