package attendance

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is the category of every sequencing, timestamp or prerequisite violation.
// Use errors.Is(err, ErrInvalidRequest) to detect any of the errors below.
var ErrInvalidRequest = errors.New("invalid request")

// Clock-in errors
var (
	ErrFutureClockIn           = invalid("clock-in time cannot be in the future")
	ErrOpenEntradaExists       = invalid("employee already has a clock-in without a clock-out")
	ErrClockInBeforeLastSalida = invalid("clock-in time must be after the last recorded clock-out")
)

// Clock-out errors
var (
	ErrNoEntradaToClose      = invalid("no clock-in recorded on that day to close")
	ErrSalidaAlreadyRecorded = invalid("a clock-out is already recorded for that day's clock-in")
	ErrClockOutBeforeEntrada = invalid("clock-out time must be after the clock-in time")
)

// Invalid wraps msg so that it matches ErrInvalidRequest.
func Invalid(msg string) error {
	return invalid(msg)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
}
