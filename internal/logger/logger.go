package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

func New(env string) zerolog.Logger {
	return newWithWriter(env, os.Stderr)
}

func newWithWriter(env string, out io.Writer) zerolog.Logger {
	log := zerolog.New(out).With().Timestamp().Str("service", "vehicle-repair").Logger()
	switch env {
	case "development":
		log = log.Output(zerolog.ConsoleWriter{Out: out})
	case "test":
		log = log.Level(zerolog.WarnLevel)
	}
	return log
}
