package msgbundle

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logger atomic.Pointer[zerolog.Logger]

// Logger returns the logger used by package msgbundle. Unless SetLogger was
// called it derives from the global zerolog logger with sys=msgbundle.
func Logger() *zerolog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	l := log.With().Str("sys", "msgbundle").Logger()
	return &l
}

// SetLogger replaces the package logger.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

// MissingKeyLogger is a LookupHook that logs a warning the first time a
// key misses for a locale.
type MissingKeyLogger struct {
	logger *zerolog.Logger
	// seen is keyed by locale+"\x00"+key.
	seen sync.Map
}

var _ LookupHook = &MissingKeyLogger{}

// NewMissingKeyLogger returns a hook writing to l, or to Logger() when l is nil.
func NewMissingKeyLogger(l *zerolog.Logger) *MissingKeyLogger {
	return &MissingKeyLogger{logger: l}
}

func (h *MissingKeyLogger) BeforeLookup(*LookupContext) {}

func (h *MissingKeyLogger) AfterLookup(ctx *LookupContext) {
	if ctx == nil || ctx.Found {
		return
	}

	locale := ctx.Locale.String()
	if _, loaded := h.seen.LoadOrStore(locale+"\x00"+ctx.Key, struct{}{}); loaded {
		return
	}

	l := h.logger
	if l == nil {
		l = Logger()
	}
	l.Warn().
		Str("locale", locale).
		Str("key", ctx.Key).
		Msg("Missing message")
}
