package telemetry

import (
	"io"

	"github.com/rs/zerolog"
)

type Logger interface {
	Info(msg string)
	Debug(msg string)
	Error(msg string, err error)
}

type NOPLogger struct {
}

func (n NOPLogger) Info(msg string) {
}
func (n NOPLogger) Debug(msg string) {
}
func (n NOPLogger) Error(msg string, err error) {
}

// ZeroLogger sends log lines to a zerolog.Logger.
type ZeroLogger struct {
	log zerolog.Logger
}

// NewZeroLogger writes human readable lines to w. Debug lines are only
// written when debug is set.
func NewZeroLogger(w io.Writer, debug bool) ZeroLogger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	l := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger().Level(level)
	return ZeroLogger{log: l}
}

func FromZerolog(l zerolog.Logger) ZeroLogger {
	return ZeroLogger{log: l}
}

func (z ZeroLogger) Info(msg string) {
	z.log.Info().Msg(msg)
}
func (z ZeroLogger) Debug(msg string) {
	z.log.Debug().Msg(msg)
}
func (z ZeroLogger) Error(msg string, err error) {
	z.log.Error().Err(err).Msg(msg)
}
