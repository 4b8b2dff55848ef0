package logging

import (
	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
)

// SentryHook forwards Warn-and-above zerolog events to Sentry. Debug/Info/
// Trace stay local; a run that merely logs progress shouldn't page anyone.
type SentryHook struct{}

func (h SentryHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level < zerolog.WarnLevel {
		return
	}

	var sentryLevel sentry.Level
	switch level {
	case zerolog.WarnLevel:
		sentryLevel = sentry.LevelWarning
	case zerolog.ErrorLevel:
		sentryLevel = sentry.LevelError
	case zerolog.FatalLevel, zerolog.PanicLevel:
		sentryLevel = sentry.LevelFatal
	default:
		sentryLevel = sentry.LevelWarning
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel)
		scope.SetTag("component", "jobseeker-engine")
		scope.SetTag("log_level", level.String())
		sentry.CaptureMessage(msg)
	})
}
