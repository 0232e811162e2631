package cmd

import (
	"errors"

	"oculurum/internal/pngsink"
	"oculurum/internal/transcode"
)

const (
	exitUsage          = 1
	exitMultipleInputs = 2
	exitNoInput        = 3
	exitCreateOutput   = 4
	exitOutputPath     = 5
	exitSinkHeader     = 6
	exitSinkStream     = 7
	exitPlanning       = 8
	exitSinkWrite      = 9
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func exitCode(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, errCreateOutput):
		return exitCreateOutput
	case errors.Is(err, errInvalidOutputPath):
		return exitOutputPath
	case errors.Is(err, pngsink.ErrInvalidHeader):
		return exitSinkHeader
	case errors.Is(err, pngsink.ErrStreamInit):
		return exitSinkStream
	case errors.Is(err, transcode.ErrMetadataUnavailable), errors.Is(err, transcode.ErrTraversalFailed):
		return exitPlanning
	case errors.Is(err, transcode.ErrSinkInit):
		return exitSinkHeader
	case errors.Is(err, transcode.ErrSinkWrite), errors.Is(err, transcode.ErrSinkFinalize):
		return exitSinkWrite
	default:
		return exitUsage
	}
}
