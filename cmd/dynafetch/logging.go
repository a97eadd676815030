package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	if level == "" {
		level = zerolog.LevelInfoValue
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var out io.Writer

	switch format {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
		out = w
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q, expected console or json", format)
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
