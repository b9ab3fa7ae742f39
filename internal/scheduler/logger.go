package scheduler

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logger adapts zerolog to gocron.Logger.
type logger struct {
	log zerolog.Logger
}

func newLogger() *logger {
	return &logger{log: log.With().Str("component", "scheduler").Logger()}
}

func (l *logger) Debug(msg string, args ...any) {
	l.log.Debug().Fields(args).Msg(msg)
}

func (l *logger) Error(msg string, args ...any) {
	l.log.Error().Fields(args).Msg(msg)
}

func (l *logger) Info(msg string, args ...any) {
	l.log.Info().Fields(args).Msg(msg)
}

func (l *logger) Warn(msg string, args ...any) {
	l.log.Warn().Fields(args).Msg(msg)
}
