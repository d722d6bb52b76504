package main

import (
	"errors"

	apierrors "apidelta/internal/errors"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitBreaking = 1
)

// exitError carries an exit code without printing anything further. It is
// used when the command already reported its outcome.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

func usageError(format string, args ...interface{}) error {
	return apierrors.Newf(apierrors.Usage, format, args...)
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if apierrors.HasCode(err, apierrors.Usage) {
		return exitUsage
	}
	return exitFailure
}
