package main

import (
	"errors"

	"github.com/wolfeidau/dynafetch"
)

// exit codes follow sysexits.h so scripts can tell bad input from backend failures
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitSoftware = 70
	ExitIOErr    = 74
	ExitConfig   = 78
)

// ConfigError configuration or session setup failed before the engine ran
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode translate an engine or setup error into a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		parsingErr     *dynafetch.ParsingError
		keyNotFoundErr *dynafetch.KeyNotFoundError
		unsupportedErr *dynafetch.UnsupportedTypeError
		getItemErr     *dynafetch.GetItemError
		putItemErr     *dynafetch.PutItemError
		tooManyErr     *dynafetch.TooManyRecordsError
		configErr      *ConfigError
	)

	switch {
	case errors.As(err, &parsingErr), errors.As(err, &keyNotFoundErr), errors.As(err, &unsupportedErr):
		return ExitDataErr
	case errors.As(err, &getItemErr), errors.As(err, &putItemErr):
		return ExitIOErr
	case errors.As(err, &tooManyErr):
		return ExitUsage
	case errors.As(err, &configErr):
		return ExitConfig
	default:
		return ExitSoftware
	}
}
